package rpeg

import (
	"image"
	"image/color"
	"io"

	"github.com/svanichkin/rpeg/array2"
	"github.com/svanichkin/rpeg/internal/ppm"
)

// Pixel is an RGB triple whose channels are scaled by the owning image's
// denominator.
type Pixel struct {
	R, G, B uint16
}

// Image is an RGB raster. Channel values lie in [0, Denominator].
type Image struct {
	Width       int
	Height      int
	Denominator uint16
	Pixels      *array2.Array2[Pixel]
}

// NewImage returns a black width x height image.
func NewImage(width, height int, denominator uint16) *Image {
	return &Image{
		Width:       width,
		Height:      height,
		Denominator: denominator,
		Pixels:      array2.New(width, height, Pixel{}),
	}
}

// At returns the pixel at x, y, or the zero Pixel when out of bounds.
func (m *Image) At(x, y int) Pixel {
	p, _ := m.Pixels.Get(x, y)
	return p
}

// Trim returns a copy of m with the last column and/or row dropped so both
// dimensions are even.
func (m *Image) Trim() *Image {
	w, h := m.Width&^1, m.Height&^1
	out := NewImage(w, h, m.Denominator)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pixels.Set(x, y, m.At(x, y))
		}
	}
	return out
}

// ReadPPM reads a P3 or P6 Netpbm image. The file's maxval becomes the
// image denominator.
func ReadPPM(r io.Reader) (*Image, error) {
	src, err := ppm.Decode(r)
	if err != nil {
		return nil, err
	}
	pix := make([]Pixel, src.Width*src.Height)
	for i := range pix {
		s := src.Pix[3*i : 3*i+3]
		pix[i] = Pixel{R: s[0], G: s[1], B: s[2]}
	}
	arr, err := array2.FromRowMajor(src.Width, src.Height, pix)
	if err != nil {
		return nil, err
	}
	return &Image{Width: src.Width, Height: src.Height, Denominator: src.Maxval, Pixels: arr}, nil
}

// WritePPM writes m as a binary P6 image with maxval equal to the
// denominator.
func (m *Image) WritePPM(w io.Writer) error {
	pix := make([]uint16, 0, m.Width*m.Height*3)
	for _, p := range m.Pixels.RowMajor() {
		pix = append(pix, p.R, p.G, p.B)
	}
	return ppm.Encode(w, &ppm.Image{Width: m.Width, Height: m.Height, Maxval: m.Denominator, Pix: pix})
}

// FromImage copies any image.Image into an Image with denominator 255.
// Alpha is discarded.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst := NewImage(b.Dx(), b.Dy(), 255)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.Pixels.Set(x-b.Min.X, y-b.Min.Y, Pixel{R: uint16(c.R), G: uint16(c.G), B: uint16(c.B)})
		}
	}
	return dst
}

// ToImage converts m into an opaque *image.NRGBA64.
func (m *Image) ToImage() (*image.NRGBA64, error) {
	if m.Denominator == 0 {
		return nil, ErrZeroDenominator
	}
	dst := image.NewNRGBA64(image.Rect(0, 0, m.Width, m.Height))
	d := uint32(m.Denominator)
	scale := func(v uint16) uint16 {
		return uint16((min(uint32(v), d)*0xffff + d/2) / d)
	}
	for p, px := range m.Pixels.RowMajor() {
		dst.SetNRGBA64(p.X, p.Y, color.NRGBA64{R: scale(px.R), G: scale(px.G), B: scale(px.B), A: 0xffff})
	}
	return dst, nil
}
