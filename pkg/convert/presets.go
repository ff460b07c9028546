package convert

// Preset is a named resolution target tuned for a publishing scenario.
type Preset struct {
	Key    string
	NameUA string
	NameEN string
	// Width/Height bound the output; zero means keep the original size.
	Width  int
	Height int
}

// Presets are the selectable resolution presets, in display order.
// Bounds follow current Core Web Vitals guidance for product imagery.
var Presets = []Preset{
	{Key: "seo_optimal", NameUA: "SEO Оптимальний (рекомендовано)", NameEN: "SEO Optimal (recommended)", Width: 1200, Height: 1200},
	{Key: "high_quality", NameUA: "Висока якість", NameEN: "High Quality", Width: 1920, Height: 1920},
	{Key: "social_media", NameUA: "Соцмережі", NameEN: "Social Media", Width: 1080, Height: 1080},
	{Key: "thumbnail", NameUA: "Мініатюра", NameEN: "Thumbnail", Width: 600, Height: 600},
	{Key: "original", NameUA: "Оригінал (без зміни)", NameEN: "Original (no resize)"},
}

// PresetByKey returns the preset with the given key, falling back to
// seo_optimal for unknown keys.
func PresetByKey(key string) Preset {
	for _, p := range Presets {
		if p.Key == key {
			return p
		}
	}
	return Presets[0]
}
