package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodway-expert/ww-converter/pkg/export"
	"github.com/woodway-expert/ww-converter/pkg/seo"
)

func sampleItems() []export.Item {
	return []export.Item{
		{
			Index:            1,
			OriginalFilename: "IMG_0001.jpg",
			NewFilename:      "shpon-dub.webp",
			SourcePath:       "/in/IMG_0001.jpg",
			OutputPath:       "/out/shpon-dub.webp",
			Metadata: seo.Metadata{
				Filename: "shpon-dub.webp",
				UA: seo.LangBlock{
					AltText:     "Шпон дуб від WoodWay Expert",
					Title:       "Купити шпон дуб | WoodWay Expert",
					Description: "Шпон дуб від виробника.",
					Tags:        "Шпон, Дуб, WoodWay Expert",
				},
				EN: seo.LangBlock{
					AltText:     "Veneer oak by WoodWay Expert",
					Title:       "Buy veneer oak | WoodWay Expert",
					Description: "Veneer oak from the manufacturer.",
					Tags:        "Veneer, Oak, WoodWay Expert",
				},
				RU: seo.LangBlock{
					AltText: "Шпон дуб от WoodWay Expert",
					Title:   "Купить шпон дуб | WoodWay Expert",
				},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := export.WriteJSON(sampleItems(), dir, export.Settings{
		Category:     "Шпон",
		Species:      "Дуб",
		OutputFormat: "webp",
		Quality:      85,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "WoodWay Image Converter v1.0", m["generator"])
	assert.Equal(t, float64(1), m["total_images"])
	assert.NotEmpty(t, m["export_date"])

	settings := m["settings"].(map[string]any)
	assert.Equal(t, "Шпон", settings["category"])
	assert.Equal(t, float64(85), settings["quality"])

	images := m["images"].([]any)
	require.Len(t, images, 1)
	img := images[0].(map[string]any)
	assert.Equal(t, "IMG_0001.jpg", img["original_filename"])
	assert.Equal(t, "shpon-dub.webp", img["new_filename"])

	md := img["metadata"].(map[string]any)
	ua := md["ua"].(map[string]any)
	assert.Equal(t, "Шпон дуб від WoodWay Expert", ua["alt_text"])
	en := md["en"].(map[string]any)
	assert.Equal(t, "Buy veneer oak | WoodWay Expert", en["title"])

	wp := img["wp_attachment"].(map[string]any)
	assert.Equal(t, "Шпон дуб від WoodWay Expert", wp["_wp_attachment_image_alt"])
	assert.Equal(t, "Купити шпон дуб", wp["post_title"])
	assert.Equal(t, "Шпон дуб від виробника.", wp["post_excerpt"])
	assert.Equal(t, "", wp["post_content"])
	assert.Equal(t, "Veneer oak by WoodWay Expert", wp["_alt_text_en"])
	assert.Equal(t, "Купить шпон дуб | WoodWay Expert", wp["_title_ru"])
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := export.WriteCSV(sampleItems(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(data[3:]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "index", rows[0][0])
	assert.Equal(t, "description_ru", rows[0][11])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "IMG_0001.jpg", rows[1][1])
	assert.Equal(t, "shpon-dub.webp", rows[1][2])
	assert.Equal(t, "Шпон дуб від WoodWay Expert", rows[1][3])
	assert.Equal(t, "Buy veneer oak | WoodWay Expert", rows[1][7])
}

func TestWriteJSONEmpty(t *testing.T) {
	dir := t.TempDir()
	path, err := export.WriteJSON(nil, dir, export.Settings{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, float64(0), m["total_images"])
	assert.Len(t, m["images"], 0)
}
