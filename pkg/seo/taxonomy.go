package seo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"k8s.io/klog/v2"
)

// Lang identifies one of the catalog's display languages.
type Lang string

const (
	LangUA Lang = "ua"
	LangEN Lang = "en"
	LangRU Lang = "ru"
)

// Langs lists all supported languages in output order.
var Langs = []Lang{LangUA, LangEN, LangRU}

// thicknessList is the attribute list consulted for imperial equivalents.
var thicknessList = "thickness_lumber"

//go:embed data/categories.json
var defaultTaxonomyJSON []byte

// ProductType is a product subtype nested under a Category.
type ProductType struct {
	Key    string
	NameUA string
	NameEN string
	NameRU string
	Slug   string
}

// Category is a top-level catalog category.
type Category struct {
	Key        string
	NameUA     string
	NameEN     string
	NameRU     string
	Slug       string
	Types      []ProductType
	Properties []string
}

// AttributeOption is one entry of an attribute list, with per-language
// display values and an optional imperial-unit equivalent.
type AttributeOption struct {
	UA       string
	EN       string
	RU       string
	Slug     string
	Imperial string
}

// AttributeList is a named, ordered list of attribute options.
type AttributeList struct {
	Name    string
	Options []AttributeOption
}

// Taxonomy is the read-only catalog structure backing name, slug and
// imperial-unit resolution. A zero-value Taxonomy is valid: every resolve
// call degrades to transliteration-based fallbacks.
type Taxonomy struct {
	categories []Category
	lists      []AttributeList
}

// raw JSON shapes of the categories file.
type rawType struct {
	NameUA string `json:"name_ua"`
	NameEN string `json:"name_en"`
	NameRU string `json:"name_ru"`
	Slug   string `json:"slug"`
}

type rawCategory struct {
	NameUA     string             `json:"name_ua"`
	NameEN     string             `json:"name_en"`
	NameRU     string             `json:"name_ru"`
	Slug       string             `json:"slug"`
	Types      map[string]rawType `json:"types"`
	Properties []string           `json:"properties"`
}

type rawOption struct {
	UA       string `json:"ua"`
	EN       string `json:"en"`
	RU       string `json:"ru"`
	Slug     string `json:"slug"`
	Imperial string `json:"imperial"`
}

type rawList struct {
	Options []rawOption `json:"options"`
}

type rawTaxonomy struct {
	Categories map[string]rawCategory `json:"categories"`
	Lists      map[string]rawList     `json:"lists"`
}

// DefaultTaxonomy returns the taxonomy embedded in the binary.
func DefaultTaxonomy() *Taxonomy {
	t, err := parseTaxonomy(defaultTaxonomyJSON)
	if err != nil {
		klog.Errorf("embedded taxonomy is invalid: %v", err)
		return &Taxonomy{}
	}
	return t
}

// LoadTaxonomy reads a categories file from disk. On any failure it returns
// an empty but usable taxonomy together with the error, so callers can log
// and continue with generic fallbacks.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return &Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}
	t, err := parseTaxonomy(bs)
	if err != nil {
		return &Taxonomy{}, fmt.Errorf("parse taxonomy: %w", err)
	}
	return t, nil
}

func parseTaxonomy(bs []byte) (*Taxonomy, error) {
	var raw rawTaxonomy
	if err := json.Unmarshal(bs, &raw); err != nil {
		return nil, err
	}

	t := &Taxonomy{}

	// Maps carry no order; sort keys so lookups are deterministic.
	catKeys := make([]string, 0, len(raw.Categories))
	for k := range raw.Categories {
		catKeys = append(catKeys, k)
	}
	sort.Strings(catKeys)

	for _, ck := range catKeys {
		rc := raw.Categories[ck]
		c := Category{
			Key:        ck,
			NameUA:     rc.NameUA,
			NameEN:     rc.NameEN,
			NameRU:     rc.NameRU,
			Slug:       rc.Slug,
			Properties: rc.Properties,
		}

		typeKeys := make([]string, 0, len(rc.Types))
		for k := range rc.Types {
			typeKeys = append(typeKeys, k)
		}
		sort.Strings(typeKeys)
		for _, tk := range typeKeys {
			rt := rc.Types[tk]
			c.Types = append(c.Types, ProductType{
				Key:    tk,
				NameUA: rt.NameUA,
				NameEN: rt.NameEN,
				NameRU: rt.NameRU,
				Slug:   rt.Slug,
			})
		}

		t.categories = append(t.categories, c)
	}

	listKeys := make([]string, 0, len(raw.Lists))
	for k := range raw.Lists {
		listKeys = append(listKeys, k)
	}
	sort.Strings(listKeys)

	for _, lk := range listKeys {
		l := AttributeList{Name: lk}
		for _, ro := range raw.Lists[lk].Options {
			l.Options = append(l.Options, AttributeOption(ro))
		}
		t.lists = append(t.lists, l)
	}

	return t, nil
}

var enTitle = cases.Title(language.English)

// titleCaseSlug derives a readable English fallback from a native value:
// slugify, turn hyphens into spaces, title-case each word.
func titleCaseSlug(value string) string {
	return enTitle.String(strings.ReplaceAll(Slugify(value), "-", " "))
}

// ResolveLocalizedName returns the display name of a native-language catalog
// value in the target language. The search covers categories, then product
// types, then attribute list options, matching the native field exactly.
// Misses never fail: English falls back to a title-cased transliteration,
// Ukrainian and Russian fall back to the value itself.
func (t *Taxonomy) ResolveLocalizedName(value string, lang Lang) string {
	if t != nil {
		for _, c := range t.categories {
			if c.NameUA == value {
				return pickName(lang, value, c.NameEN, c.NameRU)
			}
			for _, pt := range c.Types {
				if pt.NameUA == value {
					return pickName(lang, value, pt.NameEN, pt.NameRU)
				}
			}
		}

		for _, l := range t.lists {
			for _, o := range l.Options {
				if o.UA == value {
					return pickName(lang, value, o.EN, o.RU)
				}
			}
		}
	}

	if lang == LangEN {
		return titleCaseSlug(value)
	}
	return value
}

// pickName selects the stored value for a language, applying per-language
// fallbacks when the stored translation is empty.
func pickName(lang Lang, native, en, ru string) string {
	switch lang {
	case LangEN:
		if en != "" {
			return en
		}
		return titleCaseSlug(native)
	case LangRU:
		if ru != "" {
			return ru
		}
		return native
	default:
		return native
	}
}

// ResolveSlug returns the canonical slug for a native catalog value, or a
// freshly derived one when the value is unknown.
func (t *Taxonomy) ResolveSlug(value string) string {
	if t != nil {
		for _, c := range t.categories {
			if c.NameUA == value && c.Slug != "" {
				return c.Slug
			}
			for _, pt := range c.Types {
				if pt.NameUA == value && pt.Slug != "" {
					return pt.Slug
				}
			}
		}

		for _, l := range t.lists {
			for _, o := range l.Options {
				if (o.UA == value || o.Slug == value) && o.Slug != "" {
					return o.Slug
				}
			}
		}
	}

	return Slugify(value)
}

// ResolveImperial returns the imperial-unit equivalent of a thickness value,
// matching any localized field or the slug within the lumber thickness list.
// Returns "" when no equivalent is known.
func (t *Taxonomy) ResolveImperial(thickness string) string {
	if t == nil || thickness == "" {
		return ""
	}

	for _, l := range t.lists {
		if l.Name != thicknessList {
			continue
		}
		for _, o := range l.Options {
			if o.UA == thickness || o.EN == thickness || o.RU == thickness || o.Slug == thickness {
				return o.Imperial
			}
		}
	}

	return ""
}

// Categories returns the top-level categories for embedding UIs.
func (t *Taxonomy) Categories() []Category {
	if t == nil {
		return nil
	}
	return t.categories
}

// TypesFor returns the product types of a category by key.
func (t *Taxonomy) TypesFor(categoryKey string) []ProductType {
	if t == nil {
		return nil
	}
	for _, c := range t.categories {
		if c.Key == categoryKey {
			return c.Types
		}
	}
	return nil
}

// PropertiesFor returns the attribute list names applicable to a category.
func (t *Taxonomy) PropertiesFor(categoryKey string) []string {
	if t == nil {
		return nil
	}
	for _, c := range t.categories {
		if c.Key == categoryKey {
			return c.Properties
		}
	}
	return nil
}

// Lists returns all attribute lists in name order.
func (t *Taxonomy) Lists() []AttributeList {
	if t == nil {
		return nil
	}
	return t.lists
}

// ListOptions returns the options of an attribute list by name.
func (t *Taxonomy) ListOptions(name string) []AttributeOption {
	if t == nil {
		return nil
	}
	for _, l := range t.lists {
		if l.Name == name {
			return l.Options
		}
	}
	return nil
}
