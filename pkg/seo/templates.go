package seo

import (
	"fmt"
	"strings"
)

// Length ceilings applied to rendered fields.
const (
	maxTitleLen = 60
	maxAltLen   = 125
	maxDescLen  = 160
)

// templateVariants is the size of the rotation; the sequence index modulo
// this selects the phrasing variant, so otherwise-identical products in a
// batch do not produce duplicate copy.
const templateVariants = 4

// slot identifies a placeholder an SEO template can reference.
type slot int

const (
	// slotCatProd is the composite "category type" phrase and carries a
	// trailing space when non-empty, so templates can abut it directly.
	slotCatProd slot = iota
	slotSpecies
	slotGrade
	slotThickness
)

// line is one phrasing template: a printf format plus the slots feeding it.
type line struct {
	format string
	slots  []slot
}

// langSpec holds the rotating template tables and the all-empty fallback
// for one language.
type langSpec struct {
	titles   [templateVariants]line
	alts     [templateVariants]line
	descs    [templateVariants]line
	fallback LangBlock
}

var langSpecs = map[Lang]langSpec{
	LangUA: {
		titles: [templateVariants]line{
			{"%s%s %s | WoodWay Expert", []slot{slotCatProd, slotSpecies, slotThickness}},
			{"Купити %s%s %s | WoodWay Expert", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"%s%s %s якість | WoodWay", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"Преміум %s%s | WoodWay Expert", []slot{slotCatProd, slotSpecies}},
		},
		alts: [templateVariants]line{
			{"Натуральний %s%s з %s ґатунком, показує текстуру дерева", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"%s%s деревини, товщина %s, високоякісний матеріал", []slot{slotCatProd, slotSpecies, slotThickness}},
			{"Крупний план %s%s з природним малюнком дерева", []slot{slotCatProd, slotSpecies}},
			{"Високоякісний %s%s, %s ґатунок, підходить для меблів", []slot{slotCatProd, slotSpecies, slotGrade}},
		},
		descs: [templateVariants]line{
			{"Шукаєте %s%s? Преміум %s якість, %s. Ідеально для меблів та інтер'єру. Купіть у WoodWay Expert з доставкою по Україні.", []slot{slotCatProd, slotSpecies, slotGrade, slotThickness}},
			{"Замовте %s%s онлайн. %s, %s ґатунок. Українська майстерність, висока якість. Швидка доставка. WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotThickness, slotGrade}},
			{"Купити %s%s - %s якість, %s. Ідеально для професійних проектів. Експертна консультація. WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotGrade, slotThickness}},
			{"%s%s на продаж. %s, %s. Преміум українські деревинні матеріали. Безкоштовна консультація. Замовте у WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotThickness, slotGrade}},
		},
		fallback: LangBlock{
			Title:       "WoodWay Expert",
			AltText:     "Деревина",
			Description: "Купити деревину. Доставка по Україні. WoodWay Expert.",
		},
	},
	LangEN: {
		titles: [templateVariants]line{
			{"%s%s %s | WoodWay Expert", []slot{slotCatProd, slotSpecies, slotThickness}},
			{"Buy %s%s %s | WoodWay Expert", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"%s%s %s Quality | WoodWay", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"Premium %s%s | WoodWay Expert", []slot{slotCatProd, slotSpecies}},
		},
		alts: [templateVariants]line{
			{"Natural %s%s showing %s grade wood grain and texture", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"%s%s wood, %s thickness, high quality material", []slot{slotCatProd, slotSpecies, slotThickness}},
			{"Close-up view of %s%s with natural wood pattern", []slot{slotCatProd, slotSpecies}},
			{"High-quality %s%s material, %s grade, suitable for furniture", []slot{slotCatProd, slotSpecies, slotGrade}},
		},
		descs: [templateVariants]line{
			{"Looking for %s%s? Premium %s quality material, %s. Perfect for furniture and interior design. Buy from WoodWay Expert with delivery across Ukraine.", []slot{slotCatProd, slotSpecies, slotGrade, slotThickness}},
			{"Order %s%s online. %s, %s grade. Ukrainian craftsmanship, high quality. Fast delivery. WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotThickness, slotGrade}},
			{"Buy %s%s - %s quality, %s. Ideal for professional projects. Expert advice available. WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotGrade, slotThickness}},
			{"%s%s for sale. %s, %s. Premium Ukrainian wood products. Free consultation. Order from WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotThickness, slotGrade}},
		},
		fallback: LangBlock{
			Title:       "WoodWay Expert",
			AltText:     "Wood product",
			Description: "Buy wood products. Delivery in Ukraine. WoodWay Expert.",
		},
	},
	LangRU: {
		titles: [templateVariants]line{
			{"%s%s %s | WoodWay Expert", []slot{slotCatProd, slotSpecies, slotThickness}},
			{"Купить %s%s %s | WoodWay Expert", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"%s%s %s качество | WoodWay", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"Премиум %s%s | WoodWay Expert", []slot{slotCatProd, slotSpecies}},
		},
		alts: [templateVariants]line{
			{"Натуральный %s%s сорт %s, показывает текстуру дерева", []slot{slotCatProd, slotSpecies, slotGrade}},
			{"%s%s древесины, толщина %s, высококачественный материал", []slot{slotCatProd, slotSpecies, slotThickness}},
			{"Крупный план %s%s с природным рисунком дерева", []slot{slotCatProd, slotSpecies}},
			{"Высококачественный %s%s, %s сорт, подходит для мебели", []slot{slotCatProd, slotSpecies, slotGrade}},
		},
		descs: [templateVariants]line{
			{"Ищете %s%s? Премиум %s качество, %s. Идеально для мебели и интерьера. Купите у WoodWay Expert с доставкой по Украине.", []slot{slotCatProd, slotSpecies, slotGrade, slotThickness}},
			{"Закажите %s%s онлайн. %s, %s сорт. Украинское мастерство, высокое качество. Быстрая доставка. WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotThickness, slotGrade}},
			{"Купить %s%s - %s качество, %s. Идеально для профессиональных проектов. Экспертная консультация. WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotGrade, slotThickness}},
			{"%s%s в продаже. %s, %s. Премиум украинские древесные материалы. Бесплатная консультация. Закажите у WoodWay Expert.", []slot{slotCatProd, slotSpecies, slotThickness, slotGrade}},
		},
		fallback: LangBlock{
			Title:       "WoodWay Expert",
			AltText:     "Древесина",
			Description: "Купить древесину. Доставка по Украине. WoodWay Expert.",
		},
	},
}

// tmplFields are the resolved, localized values a template renders from.
type tmplFields struct {
	catProd   string // includes trailing space when non-empty
	species   string
	grade     string
	thickness string // already formatted with the imperial equivalent
}

func (f tmplFields) value(s slot) string {
	switch s {
	case slotCatProd:
		return f.catProd
	case slotSpecies:
		return f.species
	case slotGrade:
		return f.grade
	default:
		return f.thickness
	}
}

// render fills a template line, enforces the length ceiling and cleans up
// artifacts left by empty slots.
func (f tmplFields) render(l line, max int) string {
	args := make([]any, len(l.slots))
	for i, s := range l.slots {
		args[i] = f.value(s)
	}
	return CleanTemplate(Truncate(fmt.Sprintf(l.format, args...), max))
}

// formatThickness renders a thickness with its imperial equivalent in
// parentheses when one is known.
func formatThickness(thickness, imperial string) string {
	if thickness == "" {
		return ""
	}
	if imperial == "" {
		return thickness
	}
	return fmt.Sprintf("%s (%s)", thickness, imperial)
}

// renderLang produces the metadata block of one language. It is a total
// function: unknown and empty attribute values degrade to fallbacks.
func (g *Generator) renderLang(lang Lang, attrs ProductAttributes, index int) LangBlock {
	spec := langSpecs[lang]

	primary := attrs.ProductType
	if primary == "" {
		primary = attrs.Category
	}

	product := g.localized(primary, lang)
	category := g.localized(attrs.Category, lang)
	species := g.localized(attrs.Species, lang)
	grade := g.localized(attrs.Grade, lang)
	thickness := attrs.Thickness
	imperial := g.tax.ResolveImperial(thickness)

	// Composite "category type" phrase: both when distinct, else whichever
	// single one is present.
	var catProd string
	switch {
	case category != "" && product != "" && category != product:
		catProd = category + " " + product
	case category != "":
		catProd = category
	default:
		catProd = product
	}

	fields := tmplFields{
		species:   species,
		grade:     grade,
		thickness: formatThickness(thickness, imperial),
	}
	if catProd != "" {
		fields.catProd = catProd + " "
	}

	hasContent := category != "" || product != "" || species != "" || grade != "" || thickness != ""

	idx := index % templateVariants
	var b LangBlock
	if hasContent {
		b.Title = fields.render(spec.titles[idx], maxTitleLen)
		b.AltText = fields.render(spec.alts[idx], maxAltLen)
		b.Description = fields.render(spec.descs[idx], maxDescLen)
	} else {
		b = spec.fallback
	}

	tags := []string{}
	if attrs.Category != "" {
		tags = append(tags, category)
	}
	if attrs.ProductType != "" {
		tags = append(tags, product)
	}
	if species != "" {
		tags = append(tags, species)
	}
	if grade != "" {
		tags = append(tags, grade)
	}
	tags = append(tags, Brand)
	b.Tags = strings.Join(tags, ", ")

	return b
}

// localized resolves a possibly-empty attribute value for a language.
func (g *Generator) localized(value string, lang Lang) string {
	if value == "" {
		return ""
	}
	return g.tax.ResolveLocalizedName(value, lang)
}
