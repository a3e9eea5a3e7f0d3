package rpeg

import (
	"context"
	"iter"
	"math"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/svanichkin/rpeg/array2"
)

const (
	lumaScale   = 511 // a is stored as 9 unsigned bits
	detailScale = 50  // b, c, d are stored as 5 signed bits
	detailLimit = 0.3
)

// Coefficients is the luma transform of one 2x2 block. A is the average
// brightness; B, C and D are the vertical, horizontal and diagonal detail.
type Coefficients struct {
	A, B, C, D float32
}

// Block is a quantized 2x2 block, ready to pack into one word.
type Block struct {
	A       uint64 // [0,511]
	B, C, D int64  // [-15,15]
	Pb, Pr  uint64 // chroma table indices
}

// Sample offsets inside a block, in transform order: top-left, top-right,
// bottom-left, bottom-right.
var blockOffsets = [4]array2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}

// Transform computes the block coefficients of four luma samples. The
// detail coefficients are clamped to [-0.3,0.3].
func Transform(tl, tr, bl, br float32) Coefficients {
	return Coefficients{
		A: (br + bl + tr + tl) / 4,
		B: lo.Clamp((br+bl-tr-tl)/4, -detailLimit, detailLimit),
		C: lo.Clamp((br-bl+tr-tl)/4, -detailLimit, detailLimit),
		D: lo.Clamp((br-bl-tr+tl)/4, -detailLimit, detailLimit),
	}
}

// InverseTransform rebuilds the four luma samples of c in top-left,
// top-right, bottom-left, bottom-right order.
func InverseTransform(c Coefficients) [4]float32 {
	return [4]float32{
		c.A - c.B - c.C + c.D,
		c.A - c.B + c.C - c.D,
		c.A + c.B - c.C - c.D,
		c.A + c.B + c.C + c.D,
	}
}

func round32(v float32) float32 {
	return float32(math.Round(float64(v)))
}

// Quantize maps c onto the integer ranges of the packed word.
func (c Coefficients) Quantize() (a uint64, b, cc, d int64) {
	a = uint64(round32(lo.Clamp(c.A, 0, 1) * lumaScale))
	b = int64(round32(lo.Clamp(c.B, -detailLimit, detailLimit) * detailScale))
	cc = int64(round32(lo.Clamp(c.C, -detailLimit, detailLimit) * detailScale))
	d = int64(round32(lo.Clamp(c.D, -detailLimit, detailLimit) * detailScale))
	return a, b, cc, d
}

// Dequantize is the inverse of Quantize, clamping back into range.
func Dequantize(a uint64, b, c, d int64) Coefficients {
	return Coefficients{
		A: lo.Clamp(float32(a)/lumaScale, 0, 1),
		B: lo.Clamp(float32(b)/detailScale, -detailLimit, detailLimit),
		C: lo.Clamp(float32(c)/detailScale, -detailLimit, detailLimit),
		D: lo.Clamp(float32(d)/detailScale, -detailLimit, detailLimit),
	}
}

// Forward transforms and quantizes four samples given in top-left,
// top-right, bottom-left, bottom-right order.
func Forward(s [4]YPbPr) Block {
	tl, tr, bl, br := s[0], s[1], s[2], s[3]
	pb := (tl.Pb + tr.Pb + br.Pb + bl.Pb) / 4
	pr := (tl.Pr + tr.Pr + br.Pr + bl.Pr) / 4

	var blk Block
	blk.A, blk.B, blk.C, blk.D = Transform(tl.Y, tr.Y, bl.Y, br.Y).Quantize()
	blk.Pb = IndexOfChroma(pb)
	blk.Pr = IndexOfChroma(pr)
	return blk
}

// Inverse reconstructs the four samples of blk. All four share the block's
// chroma.
func Inverse(blk Block) ([4]YPbPr, error) {
	var out [4]YPbPr
	pb, err := ChromaOfIndex(blk.Pb)
	if err != nil {
		return out, err
	}
	pr, err := ChromaOfIndex(blk.Pr)
	if err != nil {
		return out, err
	}
	for i, y := range InverseTransform(Dequantize(blk.A, blk.B, blk.C, blk.D)) {
		out[i] = YPbPr{Y: y, Pb: pb, Pr: pr}
	}
	return out, nil
}

// Blocks yields the top-left corner of every 2x2 block of a width x height
// raster, with its position in the word stream. Rows go top to bottom and
// blocks within a row left to right. Odd trailing rows and columns are not
// covered.
func Blocks(width, height int) iter.Seq2[int, array2.Point] {
	return func(yield func(int, array2.Point) bool) {
		i := 0
		for y := 0; y+1 < height; y += 2 {
			for x := 0; x+1 < width; x += 2 {
				if !yield(i, array2.Point{X: x, Y: y}) {
					return
				}
				i++
			}
		}
	}
}

// forEachBlock calls fn for every block of a width x height raster. With
// concurrency above one, block rows run on separate goroutines; fn must
// then only touch state owned by its block. The first error is returned and
// no further blocks are started once it occurs.
func forEachBlock(concurrency, width, height int, fn func(i int, p array2.Point) error) error {
	if concurrency <= 1 {
		for i, p := range Blocks(width, height) {
			if err := fn(i, p); err != nil {
				return err
			}
		}
		return nil
	}

	perRow := width / 2
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(concurrency)
	for row := 0; row < height/2 && ctx.Err() == nil; row++ {
		g.Go(func() error {
			for col := 0; col < perRow; col++ {
				if ctx.Err() != nil {
					return nil
				}
				if err := fn(row*perRow+col, array2.Point{X: 2 * col, Y: 2 * row}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
