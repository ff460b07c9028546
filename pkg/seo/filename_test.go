package seo_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/woodway-expert/ww-converter/pkg/seo"
)

func TestGenerateFilename(t *testing.T) {
	g := seo.NewGenerator(seo.DefaultTaxonomy())

	attrs := seo.ProductAttributes{
		Category:    "Шпон",
		ProductType: "Струганий",
		Species:     "Дуб",
	}
	got := g.GenerateFilename(attrs, 1, "webp")
	assert.Equal(t, "shpon-struhanyy-dub-01.webp", got)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9.-]+$`), got)
}

func TestGenerateFilenameAttributeOrder(t *testing.T) {
	g := seo.NewGenerator(seo.DefaultTaxonomy())

	attrs := seo.ProductAttributes{
		Category:    "Шпон",
		ProductType: "Струганий",
		Species:     "Дуб",
		Finish:      "Натуральний",
		Thickness:   "50мм",
		Size:        "2500x640",
		Grade:       "A",
		Extra:       "текстура",
	}
	got := g.GenerateFilename(attrs, 0, "webp")
	assert.Equal(t, "shpon-struhanyy-dub-naturalnyy-50mm-2500x640-a-tekstura.webp", got)
}

func TestGenerateFilenameEmptyAttributes(t *testing.T) {
	g := seo.NewGenerator(seo.DefaultTaxonomy())

	assert.Equal(t, "image.webp", g.GenerateFilename(seo.ProductAttributes{}, 0, "webp"))
	assert.Equal(t, "image-005.webp", g.GenerateFilename(seo.ProductAttributes{}, 5, "webp"))
	assert.Equal(t, "image.jpeg", g.GenerateFilename(seo.ProductAttributes{}, 0, "jpeg"))
}

func TestGenerateFilenameUnknownValues(t *testing.T) {
	g := seo.NewGenerator(seo.DefaultTaxonomy())

	attrs := seo.ProductAttributes{Species: "Дуб болотний"}
	assert.Equal(t, "dub-bolotnyy-02.webp", g.GenerateFilename(attrs, 2, "webp"))
}

func TestGenerateFilenameEmptyTaxonomy(t *testing.T) {
	g := seo.NewGenerator(&seo.Taxonomy{})

	attrs := seo.ProductAttributes{Category: "Шпон", Species: "Дуб"}
	assert.Equal(t, "shpon-dub.webp", g.GenerateFilename(attrs, 0, "webp"))
}

func TestGenerateFilenameDeterministic(t *testing.T) {
	g := seo.NewGenerator(seo.DefaultTaxonomy())

	attrs := seo.ProductAttributes{Category: "Фанера", Thickness: "18мм", Grade: "B"}
	first := g.GenerateFilename(attrs, 7, "webp")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, g.GenerateFilename(attrs, 7, "webp"))
	}
}
