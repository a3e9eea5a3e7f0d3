// Command rpeg compresses PPM images into rpeg streams and back.
//
// Usage:
//
//	rpeg -c [options] <image>   image → rpeg stream
//	rpeg -d [options] <file>    rpeg stream → PPM
//
// Output goes to stdout unless -o is given. Use "-" to read stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/spf13/pflag"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/svanichkin/rpeg"
)

const usage = `Usage:
  rpeg -c [options] <image>   Compress a PPM (or PNG/JPEG/GIF/BMP/TIFF/WebP) image
  rpeg -d [options] <file>    Decompress an rpeg stream to PPM

Options:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type config struct {
	compress   bool
	decompress bool
	output     string
	zstd       bool
	jobs       int
	input      string
	logger     *log.Logger
}

// parseArgs fills a config from args. The returned flag set is valid even
// when err is not nil, so callers can print its usage.
func parseArgs(args []string, stderr io.Writer) (*config, *pflag.FlagSet, error) {
	cfg := &config{}
	fs := pflag.NewFlagSet("rpeg", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVarP(&cfg.compress, "compress", "c", false, "compress the input image")
	fs.BoolVarP(&cfg.decompress, "decompress", "d", false, "decompress the input stream")
	fs.StringVarP(&cfg.output, "output", "o", "", "write to this path instead of stdout")
	fs.BoolVarP(&cfg.zstd, "zstd", "z", false, "wrap the compressed stream in zstd")
	fs.IntVarP(&cfg.jobs, "jobs", "j", runtime.NumCPU(), "block rows processed in parallel")
	verbose := fs.BoolP("verbose", "v", false, "log stage timings to stderr")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	switch {
	case cfg.compress == cfg.decompress:
		return nil, fs, errors.New("exactly one of -c or -d is required")
	case fs.NArg() != 1:
		return nil, fs, fmt.Errorf("expected one filename, got %d", fs.NArg())
	}
	cfg.input = fs.Arg(0)

	out := io.Discard
	if *verbose {
		out = stderr
	}
	cfg.logger = log.New(out, "rpeg: ", 0)
	return cfg, fs, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, fs, err := parseArgs(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(stderr, usage, fs.FlagUsages())
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "rpeg:", err)
		fmt.Fprint(stderr, usage, fs.FlagUsages())
		return 2
	}

	if cfg.compress {
		err = compressFile(cfg, stdin, stdout)
	} else {
		err = decompressFile(cfg, stdin, stdout)
	}
	if err != nil {
		fmt.Fprintln(stderr, "rpeg:", err)
		return 1
	}
	return 0
}

// openInput returns the named file, or stdin for "-".
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}

// withOutput runs fn against stdout or the -o file.
func withOutput(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(stdout)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// readImage decodes a PPM directly, keeping its denominator, and anything
// else through the registered image decoders.
func readImage(r io.Reader) (*rpeg.Image, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(2)
	if len(head) == 2 && head[0] == 'P' && (head[1] == '3' || head[1] == '6') {
		return rpeg.ReadPPM(br)
	}
	img, _, err := image.Decode(br)
	if err != nil {
		return nil, err
	}
	return rpeg.FromImage(img), nil
}

func compressFile(cfg *config, stdin io.Reader, stdout io.Writer) error {
	in, err := openInput(cfg.input, stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	start := time.Now()
	img, err := readImage(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.input, err)
	}
	cfg.logger.Printf("read %dx%d image (denominator %d) in %v", img.Width, img.Height, img.Denominator, time.Since(start))

	start = time.Now()
	enc := rpeg.NewEncoder(rpeg.WithConcurrency(cfg.jobs), rpeg.WithZstd(cfg.zstd))
	err = withOutput(cfg.output, stdout, func(w io.Writer) error {
		return enc.Encode(w, img)
	})
	if err != nil {
		return err
	}
	cfg.logger.Printf("compressed in %v", time.Since(start))
	return nil
}

func decompressFile(cfg *config, stdin io.Reader, stdout io.Writer) error {
	in, err := openInput(cfg.input, stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	start := time.Now()
	img, err := rpeg.NewDecoder(rpeg.WithConcurrency(cfg.jobs)).Decode(in)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", cfg.input, err)
	}
	cfg.logger.Printf("decompressed %dx%d image in %v", img.Width, img.Height, time.Since(start))

	return withOutput(cfg.output, stdout, img.WritePPM)
}
