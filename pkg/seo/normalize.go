package seo

import (
	"regexp"
	"strings"
)

var (
	wsRun            = regexp.MustCompile(`\s+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([|,.-])`)
	punctThenSpace   = regexp.MustCompile(`([|,.-])\s+`)
	leadingPipe      = regexp.MustCompile(`^\|\s+`)
)

// Truncate shortens text to max characters, preferring a word boundary.
// Whitespace runs are collapsed first. The cut backs up to the nearest
// space only when that space sits past 70% of the limit, so a mid-word
// cut is accepted rather than losing a third of the text.
func Truncate(text string, max int) string {
	text = strings.TrimSpace(wsRun.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := runes[:max]
	lastSpace := -1
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			lastSpace = i
			break
		}
	}
	if float64(lastSpace) > float64(max)*0.7 {
		cut = cut[:lastSpace]
	}

	return strings.TrimRight(string(cut), " ")
}

// CleanTemplate tidies a rendered template whose variables may have been
// empty: collapses whitespace runs, removes space before the punctuation
// set "|,.-", ensures a single space after it, and strips a leading "| "
// left behind by an empty leading variable. Idempotent.
func CleanTemplate(text string) string {
	text = wsRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = punctThenSpace.ReplaceAllString(text, "$1 ")
	text = strings.TrimSpace(text)
	text = leadingPipe.ReplaceAllString(text, "")
	return text
}
