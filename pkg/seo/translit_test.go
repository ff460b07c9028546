package seo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/woodway-expert/ww-converter/pkg/seo"
)

func TestTransliterate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Привіт", "Pryvit"},
		{"шпон", "shpon"},
		{"дуб", "dub"},
		{"є", "ye"},
		{"ї", "yi"},
		{"ґ", "g"},
		{"щ", "shch"},
		{"сіль", "sil"},
		{"мʼякий", "myakyy"},
		{"Wood-way Експерт", "Wood-way Ekspert"},
		{"шпон 18мм", "shpon 18mm"},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, seo.Transliterate(tc.in), "input %q", tc.in)
	}
}

func TestTransliterateDropsUnknownRunes(t *testing.T) {
	// Characters outside the table and outside ASCII vanish silently.
	assert.Equal(t, "dub", seo.Transliterate("дуб→"))
	assert.Equal(t, "", seo.Transliterate("漢字"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Шпон дуб", "shpon-dub"},
		{"МДФ плита", "mdf-plyta"},
		{"shpon_dub", "shpon-dub"},
		{"Шпон дуб натуральний", "shpon-dub-naturalnyy"},
		{"Фанера ФСФ березова 18мм", "fanera-fsf-berezova-18mm"},
		{"МДФ плита шпонована", "mdf-plyta-shponovana"},
		{"Шпон (дуб) #1", "shpon-dub-1"},
		{" Шпон дуб ", "shpon-dub"},
		{"Шпон  дуб", "shpon-dub"},
		{"1.0 мм", "1.0-mm"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, seo.Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifySafety(t *testing.T) {
	inputs := []string{
		"Шпон дуб натуральний",
		"ФАНЕРА БЕРЕЗА",
		"  багато   пробілів  ",
		"під_креслення_і пробіли",
		"!@#$%^&*()",
	}

	for _, in := range inputs {
		s := seo.Slugify(in)
		assert.NotContains(t, s, " ", "input %q", in)
		assert.NotContains(t, s, "_", "input %q", in)
		assert.NotContains(t, s, "--", "input %q", in)
		assert.Equal(t, strings.ToLower(s), s, "input %q", in)
		assert.False(t, strings.HasPrefix(s, "-"), "input %q", in)
		assert.False(t, strings.HasSuffix(s, "-"), "input %q", in)
		for _, r := range s {
			ok := r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '.'
			assert.True(t, ok, "unexpected rune %q in slug of %q", r, in)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Шпон дуб натуральний", "shpon-dub", "Фанера ФСФ 18мм", ""}
	for _, in := range inputs {
		once := seo.Slugify(in)
		assert.Equal(t, once, seo.Slugify(once), "input %q", in)
	}
}
