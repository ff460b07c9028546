package seo

import (
	"fmt"
	"strings"
)

// Brand is the token appended to generated titles, tags and descriptions.
const Brand = "WoodWay Expert"

// ProductAttributes describes one product for naming and metadata
// generation. Every field is optional; empty fields are skipped.
type ProductAttributes struct {
	Category    string
	ProductType string
	Species     string
	Thickness   string
	Finish      string
	Size        string
	Grade       string
	Extra       string
}

// LangBlock is the generated metadata for a single language. All fields
// are always populated, if only with fallback text.
type LangBlock struct {
	AltText     string `json:"alt_text"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// Metadata is the full generation result: a filename plus one metadata
// block per language. It is a value object, never mutated after creation.
type Metadata struct {
	Filename string    `json:"filename"`
	UA       LangBlock `json:"ua"`
	EN       LangBlock `json:"en"`
	RU       LangBlock `json:"ru"`
}

// Block returns the metadata block for a language.
func (m Metadata) Block(lang Lang) LangBlock {
	switch lang {
	case LangEN:
		return m.EN
	case LangRU:
		return m.RU
	default:
		return m.UA
	}
}

// Generator produces filenames and metadata against a fixed taxonomy.
// It is stateless across calls and safe for concurrent use.
type Generator struct {
	tax *Taxonomy
}

// NewGenerator returns a generator backed by the given taxonomy. A nil
// taxonomy is allowed and behaves like an empty one.
func NewGenerator(tax *Taxonomy) *Generator {
	return &Generator{tax: tax}
}

// GenerateFilename composes an SEO filename from attribute slugs in fixed
// priority order, an optional 1-based sequence index and an extension.
// Deterministic: identical inputs always yield an identical name.
func (g *Generator) GenerateFilename(attrs ProductAttributes, index int, ext string) string {
	parts := []string{}
	for _, v := range []string{
		attrs.Category,
		attrs.ProductType,
		attrs.Species,
		attrs.Finish,
		attrs.Thickness,
		attrs.Size,
		attrs.Grade,
		attrs.Extra,
	} {
		if v == "" {
			continue
		}
		if s := g.tax.ResolveSlug(v); s != "" {
			parts = append(parts, s)
		}
	}

	var name string
	switch {
	case len(parts) == 0 && index > 0:
		name = fmt.Sprintf("image-%03d", index)
	case len(parts) == 0:
		name = "image"
	case index > 0:
		name = strings.Join(append(parts, fmt.Sprintf("%02d", index)), "-")
	default:
		name = strings.Join(parts, "-")
	}

	return name + "." + ext
}

// GenerateMetadata produces a complete three-language metadata set for one
// image. The index rotates among four template variants per language and
// is also embedded in the filename.
func (g *Generator) GenerateMetadata(attrs ProductAttributes, index int, ext string) Metadata {
	m := Metadata{Filename: g.GenerateFilename(attrs, index, ext)}
	m.UA = g.renderLang(LangUA, attrs, index)
	m.EN = g.renderLang(LangEN, attrs, index)
	m.RU = g.renderLang(LangRU, attrs, index)
	return m
}
