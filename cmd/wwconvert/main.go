// wwconvert batch-renames and converts wood product images into
// web-optimized files with SEO filenames and multilingual metadata.
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"

	"github.com/woodway-expert/ww-converter/pkg/batch"
	"github.com/woodway-expert/ww-converter/pkg/convert"
	"github.com/woodway-expert/ww-converter/pkg/export"
	"github.com/woodway-expert/ww-converter/pkg/seo"
	"github.com/woodway-expert/ww-converter/pkg/settings"
	"github.com/woodway-expert/ww-converter/pkg/video"
)

var (
	inDir     = flag.String("in", "", "Location of input directory")
	outDir    = flag.String("out", "", "Location of output directory")
	format    = flag.String("format", "webp", "Output format: webp, jpeg or png")
	quality   = flag.Int("quality", 0, "Output quality 1-100 (0 uses the format default)")
	preset    = flag.String("preset", "seo_optimal", "Size preset: seo_optimal, high_quality, social_media, thumbnail, original")
	workers   = flag.Int("workers", 4, "Number of concurrent conversions")
	writeExif = flag.Bool("exif", false, "Embed metadata into the converted files (requires exiftool)")
	keepOrig  = flag.Bool("keep-originals", false, "Copy source files into <out>/originals")
	doExport  = flag.Bool("export", false, "Write export.json and export.csv for WordPress import")
	watchFlag = flag.Bool("watch", false, "Watch the input directory and reprocess on changes")

	doVideos    = flag.Bool("videos", false, "Also convert videos found in the input directory (requires ffmpeg)")
	videoFormat = flag.String("video-format", "mp4", "Video output format: mp4 or webm")
	videoCRF    = flag.Int("crf", 23, "Video quality CRF, 0-51, lower is better")

	taxonomyPath = flag.String("taxonomy", "", "Path to a categories.json overriding the built-in catalog")

	category    = flag.String("category", "", "Product category (Ukrainian, e.g. Шпон)")
	productType = flag.String("type", "", "Product type (Ukrainian, e.g. Струганий)")
	species     = flag.String("species", "", "Wood species (Ukrainian, e.g. Дуб)")
	finish      = flag.String("finish", "", "Surface finish")
	thickness   = flag.String("thickness", "", "Material thickness (e.g. 50мм)")
	size        = flag.String("size", "", "Dimensions (e.g. 2500x640)")
	grade       = flag.String("grade", "", "Quality grade (e.g. A)")
	extra       = flag.String("extra", "", "Extra descriptor appended to filenames")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *inDir == "" {
		klog.Exitf("--in is a required flag")
	}
	if *outDir == "" {
		klog.Exitf("--out is a required flag")
	}

	cfg, err := settings.Load()
	if err != nil {
		klog.Warningf("settings: %v", err)
	}

	tax := loadTaxonomy(cfg)

	p := newPipeline(tax)
	run(p)

	if *doVideos {
		convertVideos(seo.NewGenerator(tax))
	}

	if *watchFlag {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(p); err != nil {
				klog.Exitf("watch failed: %v", err)
			}
		}()
		wg.Wait()
	}
}

func loadTaxonomy(cfg settings.Settings) *seo.Taxonomy {
	path := *taxonomyPath
	if path == "" {
		path = cfg.TaxonomyPath
	}
	if path == "" {
		return seo.DefaultTaxonomy()
	}
	tax, err := seo.LoadTaxonomy(path)
	if err != nil {
		klog.Warningf("using generic fallbacks: %v", err)
	}
	return tax
}

func newPipeline(tax *seo.Taxonomy) *batch.Pipeline {
	ps := convert.PresetByKey(*preset)
	conv := convert.New(convert.Options{
		Format:    convert.Format(*format),
		Quality:   *quality,
		MaxWidth:  ps.Width,
		MaxHeight: ps.Height,
	})

	p, err := batch.NewPipeline(batch.Options{
		Generator: seo.NewGenerator(tax),
		Converter: conv,
		Attrs: seo.ProductAttributes{
			Category:    *category,
			ProductType: *productType,
			Species:     *species,
			Finish:      *finish,
			Thickness:   *thickness,
			Size:        *size,
			Grade:       *grade,
			Extra:       *extra,
		},
		Workers:       *workers,
		WriteEXIF:     *writeExif,
		KeepOriginals: *keepOrig,
	})
	if err != nil {
		klog.Exitf("pipeline: %v", err)
	}
	return p
}

func run(p *batch.Pipeline) {
	items, err := p.Run(context.Background(), *inDir, *outDir)
	if err != nil {
		klog.Errorf("batch had failures: %v", err)
	}
	if len(items) == 0 {
		return
	}

	if *doExport {
		s := export.Settings{
			Category:     *category,
			ProductType:  *productType,
			Species:      *species,
			Thickness:    *thickness,
			Grade:        *grade,
			OutputFormat: *format,
			Quality:      *quality,
		}
		if _, err := export.WriteJSON(items, *outDir, s); err != nil {
			klog.Errorf("export JSON: %v", err)
		}
		if _, err := export.WriteCSV(items, *outDir); err != nil {
			klog.Errorf("export CSV: %v", err)
		}
	}
}

// convertVideos transcodes every video under the input directory into
// web-optimized files with SEO names, plus a poster frame for each.
func convertVideos(gen *seo.Generator) {
	files, err := batch.FindVideos(*inDir)
	if err != nil {
		klog.Errorf("find videos: %v", err)
		return
	}
	if len(files) == 0 {
		return
	}

	ps := convert.PresetByKey(*preset)
	vc := video.New(video.Options{
		Format:       video.Format(*videoFormat),
		CRF:          *videoCRF,
		MaxWidth:     ps.Width,
		MaxHeight:    ps.Height,
		IncludeAudio: true,
	})
	if !vc.Available() {
		klog.Errorf("ffmpeg not found, skipping %d videos", len(files))
		return
	}

	attrs := seo.ProductAttributes{
		Category:    *category,
		ProductType: *productType,
		Species:     *species,
		Finish:      *finish,
		Thickness:   *thickness,
		Size:        *size,
		Grade:       *grade,
		Extra:       *extra,
	}

	ctx := context.Background()
	done := 0
	for i, f := range files {
		name := gen.GenerateFilename(attrs, i+1, *videoFormat)
		outPath := filepath.Join(*outDir, name)
		if err := vc.Convert(ctx, f, outPath); err != nil {
			klog.Errorf("convert %s: %v", f, err)
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		poster := filepath.Join(*outDir, stem+"-poster.webp")
		if err := vc.ExtractPoster(ctx, outPath, poster, 1.0); err != nil {
			klog.Warningf("poster for %s: %v", outPath, err)
		}
		done++
	}
	klog.Infof("Converted %d/%d videos into %s", done, len(files), *outDir)
}

// watch reprocesses the input directory whenever files change.
func watch(p *batch.Pipeline) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				log.Println("event:", event)
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					run(p)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Println("error:", err)
			}
		}
	}()

	if err := w.Add(*inDir); err != nil {
		return err
	}
	klog.Infof("watching %s ...", *inDir)

	<-make(chan struct{})
	return nil
}
