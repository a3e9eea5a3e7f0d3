package rpeg

import (
	"math"

	"github.com/samber/lo"
)

// RGBf is an RGB triple normalized to [0,1].
type RGBf struct {
	R, G, B float32
}

// YPbPr is a component-video sample. Y is in [0,1]; Pb and Pr lie roughly
// in [-0.5,0.5].
type YPbPr struct {
	Y, Pb, Pr float32
}

// Normalize divides each channel of p by denom.
func Normalize(p Pixel, denom uint16) RGBf {
	d := float32(denom)
	return RGBf{R: float32(p.R) / d, G: float32(p.G) / d, B: float32(p.B) / d}
}

// The explicit float32 conversions round each product on its own, so no
// platform fuses them into FMAs and the output stays identical everywhere.

// ToYPbPr converts normalized RGB to YPbPr.
func ToYPbPr(c RGBf) YPbPr {
	return YPbPr{
		Y:  float32(0.299*c.R) + float32(0.587*c.G) + float32(0.114*c.B),
		Pb: float32(-0.168736*c.R) - float32(0.331264*c.G) + float32(0.5*c.B),
		Pr: float32(0.5*c.R) - float32(0.418688*c.G) - float32(0.081312*c.B),
	}
}

// ToRGB converts YPbPr back to normalized RGB. The result is not clamped.
func ToRGB(s YPbPr) RGBf {
	return RGBf{
		R: s.Y + float32(1.402*s.Pr),
		G: s.Y - float32(0.344136*s.Pb) - float32(0.714136*s.Pr),
		B: s.Y + float32(1.772*s.Pb),
	}
}

// Scale maps normalized RGB to pixel channels in [0, denom], rounding to
// the nearest integer.
func Scale(c RGBf, denom uint16) Pixel {
	d := float64(denom)
	ch := func(v float32) uint16 {
		return uint16(lo.Clamp(math.Round(float64(v)*d), 0, d))
	}
	return Pixel{R: ch(c.R), G: ch(c.G), B: ch(c.B)}
}
