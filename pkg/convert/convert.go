// Package convert produces web-optimized product images: decode, fit to a
// resolution preset, and encode as WebP, JPEG or PNG. WebP encoding is
// delegated to the external ffmpeg binary.
package convert

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// Format is a supported output format.
type Format string

const (
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// Ext returns the file extension used for the format, without a dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// supportedInput lists the file extensions the converter accepts.
var supportedInput = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".gif":  true,
}

// SupportedInput reports whether a path has a convertible extension.
func SupportedInput(path string) bool {
	return supportedInput[strings.ToLower(filepath.Ext(path))]
}

// Options configure a Converter.
type Options struct {
	Format  Format
	Quality int
	// MaxWidth/MaxHeight bound the output; zero means no limit. Images are
	// fit within the box preserving aspect ratio and never upscaled.
	MaxWidth  int
	MaxHeight int
	// FFmpeg overrides the binary used for WebP encoding.
	FFmpeg string
}

// Converter converts images per a fixed set of options. Safe for
// concurrent use.
type Converter struct {
	opts Options
}

// DefaultQuality is used when no quality is configured.
const DefaultQuality = 85

// New returns a converter, clamping quality to 1..100 and defaulting the
// format to WebP.
func New(opts Options) *Converter {
	if opts.Quality == 0 {
		opts.Quality = DefaultQuality
	}
	if opts.Quality < 1 {
		opts.Quality = 1
	}
	if opts.Quality > 100 {
		opts.Quality = 100
	}
	if opts.Format == "" {
		opts.Format = FormatWebP
	}
	if opts.FFmpeg == "" {
		opts.FFmpeg = "ffmpeg"
	}
	return &Converter{opts: opts}
}

// Quality returns the effective quality after clamping.
func (c *Converter) Quality() int { return c.opts.Quality }

// Format returns the configured output format.
func (c *Converter) Format() Format { return c.opts.Format }

// Convert reads inPath, applies the resolution bound and writes the result
// to outPath in the configured format.
func (c *Converter) Convert(ctx context.Context, inPath string, outPath string) error {
	if !SupportedInput(inPath) {
		return fmt.Errorf("unsupported input format: %s", filepath.Ext(inPath))
	}

	img, err := imgio.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %q: %w", inPath, err)
	}

	b := img.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), c.opts.MaxWidth, c.opts.MaxHeight)
	if w != b.Dx() || h != b.Dy() {
		klog.V(1).Infof("resizing %s: %dx%d -> %dx%d", inPath, b.Dx(), b.Dy(), w, h)
		img = transform.Resize(img, w, h, transform.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	switch c.opts.Format {
	case FormatJPEG:
		return imgio.Save(outPath, flatten(img), imgio.JPEGEncoder(c.opts.Quality))
	case FormatPNG:
		return imgio.Save(outPath, img, imgio.PNGEncoder())
	case FormatWebP:
		return c.encodeWebP(ctx, img, outPath)
	default:
		return fmt.Errorf("unsupported output format: %s", c.opts.Format)
	}
}

// encodeWebP writes the image through ffmpeg, which carries the WebP
// encoder this toolchain does not reimplement.
func (c *Converter) encodeWebP(ctx context.Context, img image.Image, outPath string) error {
	tmp, err := os.CreateTemp("", "wwconvert-*.png")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := imgio.Save(tmpPath, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save intermediate: %w", err)
	}

	args := []string{
		"-y",
		"-i", tmpPath,
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(c.opts.Quality),
		outPath,
	}
	cmd := exec.CommandContext(ctx, c.opts.FFmpeg, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg webp encode: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// fitWithin scales a source size to fit inside maxW x maxH, preserving
// aspect ratio and never upscaling. Zero bounds are ignored.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}

	scale := 1.0
	if maxW > 0 {
		if s := float64(maxW) / float64(w); s < scale {
			scale = s
		}
	}
	if maxH > 0 {
		if s := float64(maxH) / float64(h); s < scale {
			scale = s
		}
	}
	if scale >= 1.0 {
		return w, h
	}

	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// flatten composites the image onto a white background, since JPEG has no
// alpha channel.
func flatten(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
