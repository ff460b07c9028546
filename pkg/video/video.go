// Package video wraps the external ffmpeg/ffprobe binaries to produce
// web-optimized product videos: MP4 (H.264) or WebM (VP9) with CRF-based
// quality control, bounded resolution and poster frame extraction.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

// Format is a supported output container.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatWebM Format = "webm"
)

// Codec is a supported video codec.
type Codec string

const (
	CodecH264 Codec = "h264"
	CodecH265 Codec = "h265"
	CodecVP9  Codec = "vp9"
	CodecAV1  Codec = "av1"
)

var supportedInput = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true, ".wmv": true, ".flv": true, ".ogv": true,
}

// SupportedInput reports whether a path has a convertible video extension.
func SupportedInput(path string) bool {
	return supportedInput[strings.ToLower(filepath.Ext(path))]
}

// Info describes a probed video file.
type Info struct {
	Width      int
	Height     int
	Duration   float64
	Codec      string
	HasAudio   bool
	AudioCodec string
	Bitrate    int64
	SizeBytes  int64
}

// Options configure a Converter.
type Options struct {
	Format Format
	// Codec is auto-selected from the format when empty.
	Codec Codec
	// CRF is the constant rate factor, clamped to 0..51; lower is better.
	CRF    int
	Preset string
	// MaxWidth/MaxHeight bound the output; zero means keep the source size.
	MaxWidth     int
	MaxHeight    int
	IncludeAudio bool
	AudioBitrate string
	// FFmpeg and FFprobe override the binaries used.
	FFmpeg  string
	FFprobe string
}

// Converter converts videos via ffmpeg. Safe for concurrent use.
type Converter struct {
	opts Options
}

// New returns a converter with clamped and defaulted options.
func New(opts Options) *Converter {
	if opts.Format == "" {
		opts.Format = FormatMP4
	}
	if opts.Codec == "" {
		opts.Codec = defaultCodec(opts.Format)
	}
	if opts.CRF < 0 {
		opts.CRF = 0
	}
	if opts.CRF > 51 {
		opts.CRF = 51
	}
	if opts.Preset == "" {
		opts.Preset = "medium"
	}
	if opts.AudioBitrate == "" {
		opts.AudioBitrate = "128k"
	}
	if opts.FFmpeg == "" {
		opts.FFmpeg = "ffmpeg"
	}
	if opts.FFprobe == "" {
		opts.FFprobe = "ffprobe"
	}
	return &Converter{opts: opts}
}

// defaultCodec picks the conventional codec for a container.
func defaultCodec(f Format) Codec {
	if f == FormatWebM {
		return CodecVP9
	}
	return CodecH264
}

// Available reports whether the ffmpeg binary can be found.
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.opts.FFmpeg)
	return err == nil
}

// probe JSON shapes, trimmed to the fields we read.
type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
	Size     string `json:"size"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// Probe inspects a video file via ffprobe.
func (c *Converter) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, c.opts.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (Info, error) {
	var p probeOutput
	if err := json.Unmarshal(out, &p); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	i := Info{}
	for _, s := range p.Streams {
		switch s.CodecType {
		case "video":
			if i.Width == 0 {
				i.Width = s.Width
				i.Height = s.Height
				i.Codec = s.CodecName
			}
		case "audio":
			i.HasAudio = true
			if i.AudioCodec == "" {
				i.AudioCodec = s.CodecName
			}
		}
	}

	i.Duration, _ = strconv.ParseFloat(p.Format.Duration, 64)
	i.Bitrate, _ = strconv.ParseInt(p.Format.BitRate, 10, 64)
	i.SizeBytes, _ = strconv.ParseInt(p.Format.Size, 10, 64)

	return i, nil
}

// Convert transcodes inPath to outPath with the configured options.
func (c *Converter) Convert(ctx context.Context, inPath string, outPath string) error {
	if !SupportedInput(inPath) {
		return fmt.Errorf("unsupported input format: %s", filepath.Ext(inPath))
	}

	info, err := c.Probe(ctx, inPath)
	if err != nil {
		return err
	}

	args := c.buildArgs(inPath, outPath, info)
	klog.V(1).Infof("ffmpeg %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, c.opts.FFmpeg, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg convert %q: %w: %s", inPath, err, tail(string(out), 500))
	}
	return nil
}

// buildArgs assembles the ffmpeg argument list. Filters come before codec
// settings so scaling happens ahead of encoding.
func (c *Converter) buildArgs(inPath, outPath string, info Info) []string {
	args := []string{"-y", "-i", inPath}

	if f := c.scaleFilter(info.Width, info.Height); f != "" {
		args = append(args, "-vf", f)
	}

	crf := strconv.Itoa(c.opts.CRF)
	switch c.opts.Codec {
	case CodecH264:
		args = append(args, "-c:v", "libx264", "-preset", c.opts.Preset, "-crf", crf,
			"-movflags", "+faststart", "-pix_fmt", "yuv420p")
	case CodecH265:
		args = append(args, "-c:v", "libx265", "-preset", c.opts.Preset, "-crf", crf,
			"-movflags", "+faststart", "-tag:v", "hvc1")
	case CodecVP9:
		args = append(args, "-c:v", "libvpx-vp9", "-crf", crf, "-b:v", "0",
			"-deadline", "good", "-pix_fmt", "yuv420p")
	case CodecAV1:
		args = append(args, "-c:v", "libaom-av1", "-crf", crf, "-b:v", "0",
			"-cpu-used", "4", "-pix_fmt", "yuv420p")
	}

	if c.opts.IncludeAudio && info.HasAudio {
		if c.opts.Format == FormatMP4 {
			args = append(args, "-c:a", "aac")
		} else {
			args = append(args, "-c:a", "libopus")
		}
		args = append(args, "-b:a", c.opts.AudioBitrate)
	} else {
		args = append(args, "-an")
	}

	return append(args, outPath)
}

// scaleFilter returns the ffmpeg scale filter needed to fit the source
// within the configured bounds, or "" when no scaling is needed. Output
// dimensions are forced even, as most codecs require.
func (c *Converter) scaleFilter(w, h int) string {
	maxW, maxH := c.opts.MaxWidth, c.opts.MaxHeight
	if maxW <= 0 || maxH <= 0 || w <= 0 || h <= 0 {
		return ""
	}
	if w <= maxW && h <= maxH {
		return ""
	}

	aspect := float64(w) / float64(h)
	var tw, th int
	if aspect > float64(maxW)/float64(maxH) {
		tw = maxW
		th = int(float64(maxW) / aspect)
	} else {
		th = maxH
		tw = int(float64(maxH) * aspect)
	}
	tw -= tw % 2
	th -= th % 2
	if tw <= 0 || th <= 0 {
		return ""
	}

	return fmt.Sprintf("scale=%d:%d", tw, th)
}

// ExtractPoster pulls a single frame to use as the video's poster image.
func (c *Converter) ExtractPoster(ctx context.Context, inPath, outPath string, offsetSec float64) error {
	args := []string{
		"-y",
		"-ss", strconv.FormatFloat(offsetSec, 'f', -1, 64),
		"-i", inPath,
		"-vframes", "1",
		"-q:v", "2",
		outPath,
	}
	cmd := exec.CommandContext(ctx, c.opts.FFmpeg, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg poster %q: %w: %s", inPath, err, tail(string(out), 500))
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
