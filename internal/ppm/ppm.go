// Package ppm reads and writes Netpbm color images (P3 and P6).
package ppm

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrFormat            = errors.New("ppm: invalid format")
	ErrDimensionMismatch = errors.New("ppm: pixel data does not match dimensions")
)

const maxPixels = 1 << 32

// Image holds interleaved RGB samples, three per pixel, row-major.
type Image struct {
	Width, Height int
	Maxval        uint16
	Pix           []uint16
}

type headerReader struct {
	br *bufio.Reader
}

// skipSpace consumes whitespace and '#' comments up to the next token.
func (h *headerReader) skipSpace() error {
	for {
		c, err := h.br.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case c == '#':
			if _, err := h.br.ReadString('\n'); err != nil {
				return err
			}
		case isSpace(c):
		default:
			return h.br.UnreadByte()
		}
	}
}

func (h *headerReader) token() (string, error) {
	if err := h.skipSpace(); err != nil {
		return "", err
	}
	var tok []byte
	for {
		c, err := h.br.ReadByte()
		if err == io.EOF && len(tok) > 0 {
			return string(tok), nil
		}
		if err != nil {
			return "", err
		}
		if isSpace(c) || c == '#' {
			return string(tok), h.br.UnreadByte()
		}
		tok = append(tok, c)
	}
}

func (h *headerReader) number(label string, maxv uint64) (uint64, error) {
	tok, err := h.token()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrFormat, label, err)
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil || v == 0 || v > maxv {
		return 0, fmt.Errorf("%w: bad %s %q", ErrFormat, label, tok)
	}
	return v, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// Decode reads a P3 or P6 image from r.
func Decode(r io.Reader) (*Image, error) {
	h := &headerReader{br: bufio.NewReader(r)}

	magic := make([]byte, 2)
	if _, err := io.ReadFull(h.br, magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", ErrFormat, err)
	}
	if magic[0] != 'P' || (magic[1] != '3' && magic[1] != '6') {
		return nil, fmt.Errorf("%w: unsupported magic %q", ErrFormat, magic)
	}

	w, err := h.number("width", 1<<31-1)
	if err != nil {
		return nil, err
	}
	ht, err := h.number("height", 1<<31-1)
	if err != nil {
		return nil, err
	}
	maxval, err := h.number("maxval", 65535)
	if err != nil {
		return nil, err
	}

	if w*ht > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d is too large", ErrFormat, w, ht)
	}

	img := &Image{Width: int(w), Height: int(ht), Maxval: uint16(maxval)}
	n := img.Width * img.Height * 3

	// Pixel storage grows with the data actually read, so a header that
	// claims a huge raster cannot force a huge allocation up front.
	if magic[1] == '3' {
		for len(img.Pix) < n {
			tok, err := h.token()
			if err != nil {
				return nil, fmt.Errorf("%w: %d of %d samples: %v", ErrDimensionMismatch, len(img.Pix), n, err)
			}
			v, err := strconv.ParseUint(tok, 10, 16)
			if err != nil || v > maxval {
				return nil, fmt.Errorf("%w: bad sample %q", ErrFormat, tok)
			}
			img.Pix = append(img.Pix, uint16(v))
		}
		return img, nil
	}

	// Exactly one whitespace byte separates the header from binary data.
	c, err := h.br.ReadByte()
	if err != nil || !isSpace(c) {
		return nil, fmt.Errorf("%w: missing raster separator", ErrFormat)
	}

	bps := 1
	if maxval > 255 {
		bps = 2
	}
	var body bytes.Buffer
	want := int64(n) * int64(bps)
	got, err := io.CopyN(&body, h.br, want)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if got != want {
		return nil, fmt.Errorf("%w: read %d of %d bytes", ErrDimensionMismatch, got, want)
	}
	raw := body.Bytes()
	img.Pix = make([]uint16, n)
	for i := range img.Pix {
		if bps == 1 {
			img.Pix[i] = uint16(raw[i])
		} else {
			img.Pix[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
		}
		if img.Pix[i] > img.Maxval {
			return nil, fmt.Errorf("%w: sample %d exceeds maxval %d", ErrFormat, img.Pix[i], img.Maxval)
		}
	}
	return img, nil
}

// Encode writes img to w as a binary P6 image.
func Encode(w io.Writer, img *Image) error {
	if len(img.Pix) != img.Width*img.Height*3 {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrDimensionMismatch, len(img.Pix), img.Width, img.Height)
	}
	if img.Maxval == 0 {
		return fmt.Errorf("%w: zero maxval", ErrFormat)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n%d\n", img.Width, img.Height, img.Maxval); err != nil {
		return err
	}
	for _, v := range img.Pix {
		if img.Maxval > 255 {
			if err := bw.WriteByte(byte(v >> 8)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte(byte(v)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
