package rpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToYPbPr(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   RGBf
		want YPbPr
	}{
		{name: "black", in: RGBf{0, 0, 0}, want: YPbPr{0, 0, 0}},
		{name: "white", in: RGBf{1, 1, 1}, want: YPbPr{1, 0, 0}},
		{name: "red", in: RGBf{1, 0, 0}, want: YPbPr{0.299, -0.168736, 0.5}},
		{name: "blue", in: RGBf{0, 0, 1}, want: YPbPr{0.114, 0.5, -0.081312}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := ToYPbPr(tc.in)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tc.want.Pb, got.Pb, 1e-6)
			assert.InDelta(t, tc.want.Pr, got.Pr, 1e-6)
		})
	}
}

func TestColorRoundTrip(t *testing.T) {
	for _, c := range []RGBf{{0.2, 0.4, 0.6}, {1, 0, 0}, {0, 1, 0}, {0.5, 0.5, 0.5}} {
		got := ToRGB(ToYPbPr(c))
		assert.InDelta(t, c.R, got.R, 1e-4)
		assert.InDelta(t, c.G, got.G, 1e-4)
		assert.InDelta(t, c.B, got.B, 1e-4)
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(Pixel{R: 255, G: 0, B: 51}, 255)
	assert.Equal(t, RGBf{R: 1, G: 0, B: 0.2}, got)
}

func TestScale(t *testing.T) {
	assert.Equal(t, Pixel{R: 0, G: 255, B: 128}, Scale(RGBf{R: -0.1, G: 1.2, B: 0.5}, 255))
	assert.Equal(t, Pixel{R: 1000, G: 0, B: 250}, Scale(RGBf{R: 1, G: 0, B: 0.25}, 1000))
}
