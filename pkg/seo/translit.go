// Package seo generates SEO-friendly filenames and multi-language metadata
// for wood product images, driven by structured product attributes and a
// category taxonomy.
package seo

import (
	"strings"
	"unicode/utf8"
)

// uaToLatin maps Ukrainian letters to Latin per the national standard,
// plus Russian compatibility letters and apostrophe variants.
var uaToLatin = map[rune]string{
	'А': "A", 'Б': "B", 'В': "V", 'Г': "H", 'Ґ': "G",
	'Д': "D", 'Е': "E", 'Є': "Ye", 'Ж': "Zh", 'З': "Z",
	'И': "Y", 'І': "I", 'Ї': "Yi", 'Й': "Y", 'К': "K",
	'Л': "L", 'М': "M", 'Н': "N", 'О': "O", 'П': "P",
	'Р': "R", 'С': "S", 'Т': "T", 'У': "U", 'Ф': "F",
	'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch", 'Ш': "Sh", 'Щ': "Shch",
	'Ь': "", 'Ю': "Yu", 'Я': "Ya",
	'а': "a", 'б': "b", 'в': "v", 'г': "h", 'ґ': "g",
	'д': "d", 'е': "e", 'є': "ye", 'ж': "zh", 'з': "z",
	'и': "y", 'і': "i", 'ї': "yi", 'й': "y", 'к': "k",
	'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p",
	'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f",
	'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ь': "", 'ю': "yu", 'я': "ya",
	'Ы': "Y", 'ы': "y", 'Э': "E", 'э': "e",
	'Ё': "Yo", 'ё': "yo", 'Ъ': "", 'ъ': "",
	'\'': "", '’': "", 'ʼ': "",
}

// Transliterate converts Ukrainian text to Latin characters. ASCII passes
// through unchanged; unmapped non-ASCII runes are dropped.
func Transliterate(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if lat, ok := uaToLatin[r]; ok {
			b.WriteString(lat)
			continue
		}
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify converts text to an SEO-friendly slug: transliterated, lowercased,
// hyphen-separated, restricted to [a-z0-9.-] with no repeated or dangling
// hyphens. Idempotent.
func Slugify(text string) string {
	s := strings.ToLower(Transliterate(text))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	return strings.Trim(s, "-")
}
