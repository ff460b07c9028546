// Package batch drives the rename-and-convert pipeline over a directory
// of product images: discovery, SEO filename and metadata generation,
// image conversion, optional EXIF embedding and original preservation.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"

	"github.com/woodway-expert/ww-converter/pkg/convert"
	"github.com/woodway-expert/ww-converter/pkg/export"
	"github.com/woodway-expert/ww-converter/pkg/meta"
	"github.com/woodway-expert/ww-converter/pkg/seo"
	"github.com/woodway-expert/ww-converter/pkg/video"
)

// Find walks root and returns all convertible image paths, sorted.
// Dotfiles and dot-directories are skipped.
func Find(root string) ([]string, error) {
	return find(root, convert.SupportedInput)
}

// FindVideos walks root and returns all convertible video paths, sorted.
func FindVideos(root string) ([]string, error) {
	return find(root, video.SupportedInput)
}

func find(root string, match func(string) bool) ([]string, error) {
	found := []string{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				if de.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if de.IsDir() {
				return nil
			}
			if match(path) {
				found = append(found, path)
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}

	sort.Strings(found)
	klog.V(1).Infof("found %d files in %s", len(found), root)
	return found, nil
}

// Options configure a Pipeline.
type Options struct {
	Generator *seo.Generator
	Converter *convert.Converter
	Attrs     seo.ProductAttributes
	// Workers bounds concurrent conversions; defaults to 4.
	Workers int
	// WriteEXIF embeds generated metadata into the converted files.
	// Requires the exiftool binary.
	WriteEXIF bool
	// KeepOriginals copies source files into an "originals" directory
	// under the output directory.
	KeepOriginals bool
}

// Pipeline processes one input directory into one output directory.
type Pipeline struct {
	opts Options
}

// NewPipeline validates options and returns a ready pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if opts.Converter == nil {
		return nil, errors.New("converter is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Pipeline{opts: opts}, nil
}

type job struct {
	index int
	path  string
}

// Run discovers, renames and converts every image under inDir, writing
// results into outDir. Per-file failures are logged and joined into the
// returned error; successfully processed items are always returned.
func (p *Pipeline) Run(ctx context.Context, inDir, outDir string) ([]export.Item, error) {
	files, err := Find(inDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		klog.Warningf("no convertible images found in %s", inDir)
		return nil, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", outDir, err)
	}

	klog.Infof("Processing %d images from %s with %d workers", len(files), inDir, p.opts.Workers)

	ext := p.opts.Converter.Format().Ext()
	jobs := make(chan job)
	items := make([]export.Item, len(files))
	errs := make([]error, len(files))
	ok := make([]bool, len(files))

	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var mw *meta.Writer
			if p.opts.WriteEXIF {
				var err error
				if mw, err = meta.NewWriter(); err != nil {
					klog.Errorf("exiftool unavailable, skipping EXIF: %v", err)
				} else {
					defer mw.Close()
				}
			}

			for j := range jobs {
				item, err := p.process(ctx, j, outDir, ext, mw)
				if err != nil {
					errs[j.index-1] = fmt.Errorf("%s: %w", j.path, err)
					continue
				}
				items[j.index-1] = item
				ok[j.index-1] = true
			}
		}()
	}

	for i, f := range files {
		jobs <- job{index: i + 1, path: f}
	}
	close(jobs)
	wg.Wait()

	out := make([]export.Item, 0, len(files))
	for i := range files {
		if ok[i] {
			out = append(out, items[i])
		} else if errs[i] != nil {
			klog.Errorf("failed: %v", errs[i])
		}
	}

	klog.Infof("Processed %d/%d images into %s", len(out), len(files), outDir)
	return out, errors.Join(errs...)
}

func (p *Pipeline) process(ctx context.Context, j job, outDir, ext string, mw *meta.Writer) (export.Item, error) {
	md := p.opts.Generator.GenerateMetadata(p.opts.Attrs, j.index, ext)
	outPath := filepath.Join(outDir, md.Filename)

	if err := p.opts.Converter.Convert(ctx, j.path, outPath); err != nil {
		return export.Item{}, err
	}

	if mw != nil {
		if err := mw.WriteSEO(outPath, md); err != nil {
			klog.Warningf("EXIF write failed for %s: %v", outPath, err)
		}
	}

	if p.opts.KeepOriginals {
		orig := filepath.Join(outDir, "originals", filepath.Base(j.path))
		if err := copy.Copy(j.path, orig); err != nil {
			klog.Warningf("keep original %s: %v", j.path, err)
		}
	}

	src, err := filepath.Abs(j.path)
	if err != nil {
		src = j.path
	}
	dst, err := filepath.Abs(outPath)
	if err != nil {
		dst = outPath
	}

	return export.Item{
		Index:            j.index,
		OriginalFilename: filepath.Base(j.path),
		NewFilename:      md.Filename,
		SourcePath:       src,
		OutputPath:       dst,
		Metadata:         md,
	}, nil
}
