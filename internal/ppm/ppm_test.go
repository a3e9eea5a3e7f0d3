package ppm

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeP3WithComments(t *testing.T) {
	src := "P3\n# a comment\n2 1 # trailing\n255\n255 0 0  0 128 255\n"
	img, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, uint16(255), img.Maxval)
	assert.Equal(t, []uint16{255, 0, 0, 0, 128, 255}, img.Pix)
}

func TestEncodeDecodeP6(t *testing.T) {
	for _, tc := range []struct {
		name   string
		maxval uint16
		pix    []uint16
	}{
		{name: "8bit", maxval: 255, pix: []uint16{1, 2, 3, 250, 251, 252}},
		{name: "16bit", maxval: 1000, pix: []uint16{0, 999, 1000, 256, 512, 10}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, &Image{Width: 1, Height: 2, Maxval: tc.maxval, Pix: tc.pix}))

			got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, 1, got.Width)
			assert.Equal(t, 2, got.Height)
			assert.Equal(t, tc.maxval, got.Maxval)
			assert.Equal(t, tc.pix, got.Pix)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want error
	}{
		{name: "bad_magic", src: "P5\n1 1\n255\n\x00", want: ErrFormat},
		{name: "empty", src: "", want: ErrFormat},
		{name: "zero_width", src: "P6\n0 1\n255\n", want: ErrFormat},
		{name: "short_raster", src: "P6\n2 2\n255\n\x00\x00\x00", want: ErrDimensionMismatch},
		{name: "short_ascii", src: "P3\n1 1\n255\n1 2", want: ErrDimensionMismatch},
		{name: "sample_over_maxval", src: "P3\n1 1\n10\n1 2 11", want: ErrFormat},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.src))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEncodeMismatch(t *testing.T) {
	err := Encode(&bytes.Buffer{}, &Image{Width: 2, Height: 2, Maxval: 255, Pix: make([]uint16, 3)})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDecodeHugeHeaderWithoutData(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{name: "binary", src: "P6\n20000 20000 255\n"},
		{name: "ascii", src: "P3\n20000 20000 255\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err := Decode(strings.NewReader(tc.src))
			runtime.ReadMemStats(&after)

			assert.ErrorIs(t, err, ErrDimensionMismatch)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20), "bytes allocated")
		})
	}
}
