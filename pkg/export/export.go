// Package export writes batch results for WordPress import: a JSON
// manifest with attachment meta fields (including WPML/Polylang
// multilingual keys) and a CSV for spreadsheet review.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/woodway-expert/ww-converter/pkg/seo"
)

// Generator identifies the tool in exported manifests.
const Generator = "WoodWay Image Converter v1.0"

// Settings records the batch attributes used for generation.
type Settings struct {
	Category     string `json:"category"`
	ProductType  string `json:"type"`
	Species      string `json:"species"`
	Thickness    string `json:"thickness"`
	Grade        string `json:"grade"`
	OutputFormat string `json:"output_format"`
	Quality      int    `json:"quality"`
}

// Item is one processed image with its generated metadata.
type Item struct {
	Index            int    `json:"index"`
	OriginalFilename string `json:"original_filename"`
	NewFilename      string `json:"new_filename"`
	SourcePath       string `json:"source_path"`
	OutputPath       string `json:"output_path"`

	Metadata seo.Metadata `json:"-"`
}

type manifest struct {
	ExportDate  string         `json:"export_date"`
	Generator   string         `json:"generator"`
	TotalImages int            `json:"total_images"`
	Settings    Settings       `json:"settings"`
	Images      []manifestItem `json:"images"`
}

type manifestItem struct {
	Item
	LangMetadata map[string]langFields `json:"metadata"`
	WPAttachment map[string]string     `json:"wp_attachment"`
}

type langFields struct {
	AltText     string `json:"alt_text"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// WriteJSON writes the WordPress import manifest into dir and returns its path.
func WriteJSON(items []Item, dir string, settings Settings) (string, error) {
	m := manifest{
		ExportDate:  time.Now().Format(time.RFC3339),
		Generator:   Generator,
		TotalImages: len(items),
		Settings:    settings,
		Images:      []manifestItem{},
	}

	for _, it := range items {
		m.Images = append(m.Images, manifestItem{
			Item: it,
			LangMetadata: map[string]langFields{
				"ua": toLangFields(it.Metadata.UA),
				"en": toLangFields(it.Metadata.EN),
				"ru": toLangFields(it.Metadata.RU),
			},
			WPAttachment: wpAttachment(it.Metadata),
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}

	path := filepath.Join(dir, "export.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	klog.Infof("Wrote %d image records to %s", len(items), path)
	return path, nil
}

func toLangFields(b seo.LangBlock) langFields {
	return langFields{AltText: b.AltText, Title: b.Title, Description: b.Description}
}

// wpAttachment builds the WordPress attachment meta map. Ukrainian is the
// primary content language; the _-prefixed language keys feed WPML/Polylang.
func wpAttachment(md seo.Metadata) map[string]string {
	return map[string]string{
		"_wp_attachment_image_alt": md.UA.AltText,
		"post_title":               strings.ReplaceAll(md.UA.Title, " | "+seo.Brand, ""),
		"post_excerpt":             md.UA.Description,
		"post_content":             "",
		"_alt_text_ua":             md.UA.AltText,
		"_alt_text_en":             md.EN.AltText,
		"_alt_text_ru":             md.RU.AltText,
		"_title_ua":                md.UA.Title,
		"_title_en":                md.EN.Title,
		"_title_ru":                md.RU.Title,
		"_description_ua":          md.UA.Description,
		"_description_en":          md.EN.Description,
		"_description_ru":          md.RU.Description,
	}
}

var csvHeaders = []string{
	"index",
	"original_filename",
	"new_filename",
	"alt_text_ua",
	"alt_text_en",
	"alt_text_ru",
	"title_ua",
	"title_en",
	"title_ru",
	"description_ua",
	"description_en",
	"description_ru",
}

// WriteCSV writes a spreadsheet-friendly export into dir and returns its
// path. The file starts with a UTF-8 BOM so Excel detects the encoding.
func WriteCSV(items []Item, dir string) (string, error) {
	path := filepath.Join(dir, "export.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeaders); err != nil {
		return "", fmt.Errorf("write headers: %w", err)
	}
	for _, it := range items {
		row := []string{
			strconv.Itoa(it.Index),
			it.OriginalFilename,
			it.NewFilename,
			it.Metadata.UA.AltText,
			it.Metadata.EN.AltText,
			it.Metadata.RU.AltText,
			it.Metadata.UA.Title,
			it.Metadata.EN.Title,
			it.Metadata.RU.Title,
			it.Metadata.UA.Description,
			it.Metadata.EN.Description,
			it.Metadata.RU.Description,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %d: %w", it.Index, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	klog.Infof("Wrote %d image records to %s", len(items), path)
	return path, nil
}
