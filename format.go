package rpeg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const magic = "Compressed image format 2\n"

// maxWords bounds the block count so the body size fits in an int64.
const maxWords = 1 << 60

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	ErrInvalidMagic  = errors.New("rpeg: invalid magic")
	ErrInvalidHeader = errors.New("rpeg: invalid header")
	ErrTruncated     = errors.New("rpeg: truncated block data")

	ErrZeroDenominator = errors.New("rpeg: zero denominator")
)

// WriteHeader writes the stream header for a width x height image.
func WriteHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "%s%d %d\n", magic, uint32(width), uint32(height))
	return err
}

// ReadHeader parses the stream header and returns the image dimensions.
func ReadHeader(r *bufio.Reader) (width, height int, err error) {
	got := make([]byte, len(magic))
	if _, err = io.ReadFull(r, got); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidMagic, err)
	}
	if string(got) != magic {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMagic, got)
	}

	line, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reading dimensions: %v", ErrInvalidHeader, err)
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: dimensions %q", ErrInvalidHeader, strings.TrimSpace(line))
	}
	dims := [2]int{}
	for i, f := range fields {
		v, perr := strconv.ParseUint(f, 10, 32)
		if perr != nil {
			return 0, 0, fmt.Errorf("%w: dimension %q", ErrInvalidHeader, f)
		}
		dims[i] = int(v)
	}
	width, height = dims[0], dims[1]
	if width%2 != 0 || height%2 != 0 {
		return 0, 0, fmt.Errorf("%w: odd dimensions %dx%d", ErrInvalidHeader, width, height)
	}
	return width, height, nil
}

// writeStream writes the header followed by the big-endian words.
func writeStream(w io.Writer, width, height int, words []uint32) error {
	bw := bufio.NewWriter(w)
	if err := WriteHeader(bw, width, height); err != nil {
		return err
	}
	var buf [4]byte
	for _, word := range words {
		binary.BigEndian.PutUint32(buf[:], word)
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// readStream reads the header and exactly width/2 * height/2 words.
// Bytes after the last word are left unread.
func readStream(r *bufio.Reader) (width, height int, words []uint32, err error) {
	width, height, err = ReadHeader(r)
	if err != nil {
		return 0, 0, nil, err
	}
	n := int64(width/2) * int64(height/2)
	if n > maxWords {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d is too large", ErrInvalidHeader, width, height)
	}

	// Copy rather than preallocate so a lying header cannot force a huge
	// allocation before any data arrives.
	var body bytes.Buffer
	got, err := io.CopyN(&body, r, n*4)
	if err != nil && err != io.EOF {
		return 0, 0, nil, err
	}
	if got != n*4 {
		return 0, 0, nil, fmt.Errorf("%w: %d of %d words", ErrTruncated, got/4, n)
	}
	raw := body.Bytes()
	words = make([]uint32, n)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(raw[4*i:])
	}
	return width, height, words, nil
}

// --- zstd envelope ---

func newZstdWriter(w io.Writer) (*zstd.Encoder, error) {
	return zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
}

// unwrap returns a reader over the plain stream, transparently removing a
// zstd envelope. The returned close function must be called when done.
func unwrap(r io.Reader) (*bufio.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil || !bytes.Equal(head, zstdMagic) {
		// Short or plain input; ReadHeader reports the problem.
		return br, func() {}, nil
	}
	dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
	if err != nil {
		return nil, nil, fmt.Errorf("zstd decode: %w", err)
	}
	return bufio.NewReader(dec), dec.Close, nil
}
