// Package meta embeds generated SEO metadata into image files via the
// external exiftool binary.
package meta

import (
	"encoding/json"
	"fmt"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"

	"github.com/woodway-expert/ww-converter/pkg/seo"
)

// Software is written to the EXIF Software tag of every processed image.
const Software = "WoodWay Image Converter"

// Writer embeds metadata into image files. Not safe for concurrent use;
// each worker should hold its own Writer.
type Writer struct {
	et *exiftool.Exiftool
}

// NewWriter starts an exiftool session.
func NewWriter() (*Writer, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Writer{et: et}, nil
}

// Close shuts the exiftool session down.
func (w *Writer) Close() error {
	return w.et.Close()
}

// WriteSEO embeds the generated metadata into the file at path. Ukrainian
// text goes into the primary EXIF fields, with English as the fallback,
// and the full multilingual set is preserved as JSON in UserComment.
func (w *Writer) WriteSEO(path string, md seo.Metadata) error {
	fields, err := exifFields(md)
	if err != nil {
		return err
	}

	fms := w.et.ExtractMetadata(path)
	fm := fms[0]
	if fm.Err != nil {
		return fmt.Errorf("read metadata %q: %w", path, fm.Err)
	}

	for k, v := range fields {
		fm.SetString(k, v)
	}

	klog.V(2).Infof("writing %d EXIF fields to %s", len(fields), path)
	w.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("write metadata %q: %w", path, fms[0].Err)
	}
	return nil
}

// exifFields maps generated metadata onto EXIF tag names.
func exifFields(md seo.Metadata) (map[string]string, error) {
	comment, err := json.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	fields := map[string]string{
		"Software":    Software,
		"UserComment": string(comment),
	}
	if alt := primary(md.UA.AltText, md.EN.AltText); alt != "" {
		fields["ImageDescription"] = alt
	}
	if title := primary(md.UA.Title, md.EN.Title); title != "" {
		fields["XPTitle"] = title
	}
	if md.UA.Tags != "" {
		fields["XPKeywords"] = md.UA.Tags
	}
	return fields, nil
}

func primary(ua, en string) string {
	if ua != "" {
		return ua
	}
	return en
}
