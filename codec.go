package rpeg

import (
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"

	"github.com/svanichkin/rpeg/array2"
)

type options struct {
	concurrency int
	zstd        bool
	denominator uint16
}

// Option configures an Encoder or Decoder.
type Option func(*options)

// WithConcurrency sets how many block rows are processed at once. Values
// below one mean sequential processing. The default is runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithZstd wraps the encoded stream in a zstd frame. It only affects
// encoding; decoders detect the frame on their own.
func WithZstd(on bool) Option {
	return func(o *options) { o.zstd = on }
}

// WithDenominator sets the channel scale of decoded images (default 255).
// It only affects decoding: an Encoder always normalizes by the input
// image's own Denominator.
func WithDenominator(d uint16) Option {
	return func(o *options) { o.denominator = d }
}

func newOptions(opts []Option) options {
	o := options{concurrency: runtime.NumCPU(), denominator: 255}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Encoder compresses images. An Encoder keeps its zstd state between calls
// and must not be used from several goroutines at once.
type Encoder struct {
	opts options
	zenc *zstd.Encoder
}

// NewEncoder returns an Encoder configured by opts. WithConcurrency and
// WithZstd apply; WithDenominator is ignored.
func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{opts: newOptions(opts)}
}

// Words trims img and returns one packed word per 2x2 block in row-major
// block order, along with the trimmed dimensions.
func (e *Encoder) Words(img *Image) (words []uint32, width, height int, err error) {
	if img.Denominator == 0 {
		return nil, 0, 0, fmt.Errorf("convert: %w", ErrZeroDenominator)
	}
	t := img.Trim()

	samples := array2.New(t.Width, t.Height, YPbPr{})
	for p, px := range t.Pixels.RowMajor() {
		samples.Set(p.X, p.Y, ToYPbPr(Normalize(px, t.Denominator)))
	}

	words = make([]uint32, (t.Width/2)*(t.Height/2))
	err = forEachBlock(e.opts.concurrency, t.Width, t.Height, func(i int, p array2.Point) error {
		var s [4]YPbPr
		for k, off := range blockOffsets {
			s[k], _ = samples.Get(p.X+off.X, p.Y+off.Y)
		}
		w, err := PackWord(Forward(s))
		if err != nil {
			return fmt.Errorf("pack block at (%d,%d): %w", p.X, p.Y, err)
		}
		words[i] = w
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return words, t.Width, t.Height, nil
}

// Encode compresses img and writes the stream to w.
func (e *Encoder) Encode(w io.Writer, img *Image) error {
	words, width, height, err := e.Words(img)
	if err != nil {
		return err
	}
	if !e.opts.zstd {
		if err := writeStream(w, width, height, words); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return nil
	}

	if e.zenc == nil {
		if e.zenc, err = newZstdWriter(w); err != nil {
			return fmt.Errorf("zstd encode: %w", err)
		}
	} else {
		e.zenc.Reset(w)
	}
	if err := writeStream(e.zenc, width, height, words); err != nil {
		e.zenc.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := e.zenc.Close(); err != nil {
		return fmt.Errorf("zstd encode: %w", err)
	}
	return nil
}

// Decoder decompresses rpeg streams.
type Decoder struct {
	opts options
}

// NewDecoder returns a Decoder configured by opts. WithConcurrency and
// WithDenominator apply; WithZstd is ignored since the envelope is detected
// from the stream.
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{opts: newOptions(opts)}
}

// Decode reads a stream from r and reconstructs the image.
func (d *Decoder) Decode(r io.Reader) (*Image, error) {
	if d.opts.denominator == 0 {
		return nil, fmt.Errorf("convert: %w", ErrZeroDenominator)
	}
	br, closeFn, err := unwrap(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	width, height, words, err := readStream(br)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	img := NewImage(width, height, d.opts.denominator)
	err = forEachBlock(d.opts.concurrency, width, height, func(i int, p array2.Point) error {
		s, err := Inverse(UnpackWord(words[i]))
		if err != nil {
			return fmt.Errorf("unpack block at (%d,%d): %w", p.X, p.Y, err)
		}
		for k, off := range blockOffsets {
			img.Pixels.Set(p.X+off.X, p.Y+off.Y, Scale(ToRGB(s[k]), img.Denominator))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Compress encodes img to w with default options.
func Compress(w io.Writer, img *Image) error {
	return NewEncoder().Encode(w, img)
}

// Decompress decodes a stream from r with default options.
func Decompress(r io.Reader) (*Image, error) {
	return NewDecoder().Decode(r)
}
