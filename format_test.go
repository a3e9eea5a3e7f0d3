package rpeg

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, 640, 480))
	assert.Equal(t, "Compressed image format 2\n640 480\n", buf.String())

	w, h, err := ReadHeader(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestReadHeader_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want error
	}{
		{name: "short", src: "Compressed", want: ErrInvalidMagic},
		{name: "no_newline", src: "Compressed image format 2\n2 2", want: ErrInvalidHeader},
		{name: "negative", src: "Compressed image format 2\n-2 2\n", want: ErrInvalidHeader},
		{name: "too_large", src: "Compressed image format 2\n8589934592 2\n", want: ErrInvalidHeader},
		{name: "extra_field", src: "Compressed image format 2\n2 2 2\n", want: ErrInvalidHeader},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadHeader(bufio.NewReader(strings.NewReader(tc.src)))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStreamRoundTrip(t *testing.T) {
	words := []uint32{0x01020304, 0xfffffff0, 0, 0x77}
	var buf bytes.Buffer
	require.NoError(t, writeStream(&buf, 4, 4, words))
	assert.Equal(t, len("Compressed image format 2\n4 4\n")+16, buf.Len())
	assert.Equal(t, []byte{1, 2, 3, 4}, buf.Bytes()[buf.Len()-16:buf.Len()-12])

	w, h, got, err := readStream(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, words, got)
}

func TestReadStream_LyingHeader(t *testing.T) {
	src := "Compressed image format 2\n100000 100000\n\x00\x00\x00\x00"
	_, _, _, err := readStream(bufio.NewReader(strings.NewReader(src)))
	assert.ErrorIs(t, err, ErrTruncated)

	src = "Compressed image format 2\n4000000000 4000000000\n"
	_, _, _, err = readStream(bufio.NewReader(strings.NewReader(src)))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}
