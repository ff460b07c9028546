// seotag adds AI-assisted SEO metadata to already-converted product
// images using the Gemini API, with template-generated text as the
// fallback for anything the model leaves blank.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"github.com/woodway-expert/ww-converter/pkg/ai"
	"github.com/woodway-expert/ww-converter/pkg/batch"
	"github.com/woodway-expert/ww-converter/pkg/meta"
	"github.com/woodway-expert/ww-converter/pkg/seo"
	"github.com/woodway-expert/ww-converter/pkg/settings"
)

var (
	dryRun  = flag.Bool("n", false, "dry-run mode, don't write metadata")
	model   = flag.String("model", "", "Gemini model to use")
	saveKey = flag.String("save-key", "", "store a Gemini API key and exit")

	taxonomyPath = flag.String("taxonomy", "", "Path to a categories.json overriding the built-in catalog")

	category    = flag.String("category", "", "Product category (Ukrainian)")
	productType = flag.String("type", "", "Product type (Ukrainian)")
	species     = flag.String("species", "", "Wood species (Ukrainian)")
	finish      = flag.String("finish", "", "Surface finish")
	thickness   = flag.String("thickness", "", "Material thickness")
	size        = flag.String("size", "", "Dimensions")
	grade       = flag.String("grade", "", "Quality grade")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *saveKey != "" {
		if err := settings.SaveGeminiKey(*saveKey); err != nil {
			klog.Exitf("save key: %v", err)
		}
		klog.Infof("API key saved")
		return
	}

	if len(flag.Args()) == 0 {
		klog.Fatalf("No input directories provided. Usage: %s <dir1> [dir2 ...]", os.Args[0])
	}

	cfg, err := settings.Load()
	if err != nil {
		klog.Exitf("settings: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		klog.Exitf("no Gemini API key: set WW_GEMINI_API_KEY or run with -save-key")
	}
	if *model != "" {
		cfg.GeminiModel = *model
	}

	tax := seo.DefaultTaxonomy()
	path := *taxonomyPath
	if path == "" {
		path = cfg.TaxonomyPath
	}
	if path != "" {
		if tax, err = seo.LoadTaxonomy(path); err != nil {
			klog.Warningf("using generic fallbacks: %v", err)
		}
	}

	ctx := context.Background()
	client, err := ai.NewClient(ctx, ai.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, tax)
	if err != nil {
		klog.Exitf("gemini: %v", err)
	}

	gen := seo.NewGenerator(tax)
	attrs := seo.ProductAttributes{
		Category:    *category,
		ProductType: *productType,
		Species:     *species,
		Finish:      *finish,
		Thickness:   *thickness,
		Size:        *size,
		Grade:       *grade,
	}

	var mw *meta.Writer
	if !*dryRun {
		if mw, err = meta.NewWriter(); err != nil {
			klog.Exitf("exiftool: %v", err)
		}
		defer func() {
			if err := mw.Close(); err != nil {
				klog.Errorf("Failed to close exiftool: %v", err)
			}
		}()
	}

	total := 0
	tagged := 0
	for _, dir := range flag.Args() {
		files, err := batch.Find(dir)
		if err != nil {
			klog.Errorf("find %s: %v", dir, err)
			continue
		}
		klog.Infof("Processing %s with %d images", dir, len(files))

		for i, f := range files {
			total++
			ext := filepath.Ext(f)
			if len(ext) > 0 {
				ext = ext[1:]
			}
			base := gen.GenerateMetadata(attrs, i+1, ext)
			base.Filename = filepath.Base(f)

			overlay, err := client.GenerateMetadata(ctx, f, attrs)
			if err != nil {
				klog.Errorf("AI metadata for %s, keeping templates: %v", f, err)
			}
			md := ai.Merge(base, overlay)

			klog.Infof("tagging %s: %q / %q", f, md.UA.Title, md.UA.Tags)
			if *dryRun {
				continue
			}
			if err := mw.WriteSEO(f, md); err != nil {
				klog.Errorf("Failed to write metadata for %s: %v", f, err)
				continue
			}
			tagged++
		}
	}

	klog.Infof("seotag completed. Tagged %d of %d images across %d directories", tagged, total, len(flag.Args()))
}
