package batch_test

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodway-expert/ww-converter/pkg/batch"
	"github.com/woodway-expert/ww-converter/pkg/convert"
	"github.com/woodway-expert/ww-converter/pkg/seo"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	require.NoError(t, imgio.Save(path, img, imgio.PNGEncoder()))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.png"), []byte("x"), 0o644))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writePNG(t, filepath.Join(sub, "c.png"), 4, 4)

	hidden := filepath.Join(dir, ".cache")
	require.NoError(t, os.MkdirAll(hidden, 0o755))
	writePNG(t, filepath.Join(hidden, "d.png"), 4, 4)

	files, err := batch.Find(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.png", filepath.Base(files[0]))
	assert.Equal(t, "b.png", filepath.Base(files[1]))
	assert.Equal(t, "c.png", filepath.Base(files[2]))
}

func TestFindVideos(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte("x"), 0o644))

	files, err := batch.FindVideos(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "clip.mp4", filepath.Base(files[0]))
}

func TestPipelineRun(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "IMG_0002.png"), 80, 40)
	writePNG(t, filepath.Join(inDir, "IMG_0001.png"), 80, 40)

	p, err := batch.NewPipeline(batch.Options{
		Generator:     seo.NewGenerator(seo.DefaultTaxonomy()),
		Converter:     convert.New(convert.Options{Format: convert.FormatPNG, MaxWidth: 40, MaxHeight: 40}),
		Attrs:         seo.ProductAttributes{Category: "Шпон", Species: "Дуб"},
		Workers:       2,
		KeepOriginals: true,
	})
	require.NoError(t, err)

	items, err := p.Run(context.Background(), inDir, outDir)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 1, items[0].Index)
	assert.Equal(t, "IMG_0001.png", items[0].OriginalFilename)
	assert.Equal(t, "shpon-dub-01.png", items[0].NewFilename)
	assert.Equal(t, "shpon-dub-02.png", items[1].NewFilename)

	for _, it := range items {
		_, err := os.Stat(it.OutputPath)
		require.NoError(t, err)
		assert.NotEmpty(t, it.Metadata.UA.Title)
	}

	img, err := imgio.Open(filepath.Join(outDir, "shpon-dub-01.png"))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	_, err = os.Stat(filepath.Join(outDir, "originals", "IMG_0001.png"))
	require.NoError(t, err)
}

func TestPipelineEmptyDir(t *testing.T) {
	p, err := batch.NewPipeline(batch.Options{
		Generator: seo.NewGenerator(nil),
		Converter: convert.New(convert.Options{Format: convert.FormatPNG}),
	})
	require.NoError(t, err)

	items, err := p.Run(context.Background(), t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPipelinePartialFailure(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "good.png"), 8, 8)
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "broken.png"), []byte("not an image"), 0o644))

	p, err := batch.NewPipeline(batch.Options{
		Generator: seo.NewGenerator(nil),
		Converter: convert.New(convert.Options{Format: convert.FormatPNG}),
		Workers:   1,
	})
	require.NoError(t, err)

	items, err := p.Run(context.Background(), inDir, outDir)
	require.Error(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "good.png", items[0].OriginalFilename)
}

func TestPipelineOptionsValidation(t *testing.T) {
	_, err := batch.NewPipeline(batch.Options{})
	require.Error(t, err)

	_, err = batch.NewPipeline(batch.Options{Generator: seo.NewGenerator(nil)})
	require.Error(t, err)
}
