package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodway-expert/ww-converter/pkg/seo"
)

func TestParseResponse(t *testing.T) {
	text := `{
		"ua": {"alt_text": "Шпон дуб", "title": "Шпон | WoodWay Expert", "description": "Опис", "tags": "Шпон, Дуб"},
		"en": {"alt_text": "Oak veneer", "title": "Veneer | WoodWay Expert", "description": "Desc", "tags": "Veneer, Oak"},
		"ru": {"alt_text": "Шпон дуб", "title": "Шпон | WoodWay Expert", "description": "Описание", "tags": "Шпон, Дуб"}
	}`

	md, err := parseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "Шпон дуб", md.UA.AltText)
	assert.Equal(t, "Veneer | WoodWay Expert", md.EN.Title)
	assert.Equal(t, "Шпон, Дуб", md.RU.Tags)
}

func TestParseResponseCodeFence(t *testing.T) {
	text := "Here is the metadata:\n```json\n" +
		`{"ua": {"alt_text": "a"}, "en": {"alt_text": "b"}, "ru": {"alt_text": "c"}}` +
		"\n```\n"

	md, err := parseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "a", md.UA.AltText)
	assert.Equal(t, "c", md.RU.AltText)
}

func TestParseResponseBareFence(t *testing.T) {
	text := "```\n" +
		`{"ua": {}, "en": {"title": "t"}, "ru": {}}` +
		"\n```"

	md, err := parseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "t", md.EN.Title)
}

func TestParseResponseErrors(t *testing.T) {
	_, err := parseResponse("not json at all")
	assert.Error(t, err)

	_, err = parseResponse(`{"ua": {"alt_text": "a"}, "en": {"alt_text": "b"}}`)
	assert.Error(t, err)
}

func TestPostTranslate(t *testing.T) {
	c := &Client{tax: seo.DefaultTaxonomy()}

	md := c.postTranslate(seo.Metadata{
		UA: seo.LangBlock{AltText: "Шпон Дуб натуральний"},
		EN: seo.LangBlock{
			AltText: "Premium Шпон Дуб with natural grain",
			Tags:    "Шпон, Дуб, WoodWay Expert",
		},
		RU: seo.LangBlock{AltText: "Премиум Шпон with texture"},
	})

	// UA untouched
	assert.Equal(t, "Шпон Дуб натуральний", md.UA.AltText)
	assert.Equal(t, "Premium Veneer Oak with natural grain", md.EN.AltText)
	assert.Equal(t, "Veneer, Oak, WoodWay Expert", md.EN.Tags)
	assert.Equal(t, "Премиум Шпон with texture", md.RU.AltText)
}

func TestMerge(t *testing.T) {
	base := seo.Metadata{
		Filename: "shpon-dub.webp",
		UA:       seo.LangBlock{AltText: "base alt", Title: "base title", Tags: "base tags"},
		EN:       seo.LangBlock{AltText: "base en alt", Description: "base en desc"},
	}
	overlay := seo.Metadata{
		UA: seo.LangBlock{AltText: "ai alt"},
		EN: seo.LangBlock{Description: "ai en desc", Tags: "ai tags"},
	}

	out := Merge(base, overlay)

	assert.Equal(t, "shpon-dub.webp", out.Filename)
	assert.Equal(t, "ai alt", out.UA.AltText)
	assert.Equal(t, "base title", out.UA.Title)
	assert.Equal(t, "base tags", out.UA.Tags)
	assert.Equal(t, "base en alt", out.EN.AltText)
	assert.Equal(t, "ai en desc", out.EN.Description)
	assert.Equal(t, "ai tags", out.EN.Tags)
}

func TestPrompt(t *testing.T) {
	c := &Client{tax: seo.DefaultTaxonomy()}

	p := c.prompt(seo.ProductAttributes{
		Category:  "Шпон",
		Species:   "Дуб",
		Thickness: "50мм",
	})
	assert.Contains(t, p, "Category: Шпон (EN: Veneer, RU: Шпон)")
	assert.Contains(t, p, "Wood Species: Дуб (EN: Oak, RU: Дуб)")
	assert.Contains(t, p, `Thickness: 50мм (2")`)
	assert.True(t, strings.Contains(p, "WoodWay Expert"))

	empty := c.prompt(seo.ProductAttributes{})
	assert.Contains(t, empty, "General wood product")
}
