package bangla

import "strings"

var banglaDigits = map[rune]rune{
	'0': '০',
	'1': '১',
	'2': '২',
	'3': '৩',
	'4': '৪',
	'5': '৫',
	'6': '৬',
	'7': '৭',
	'8': '৮',
	'9': '৯',
}

// ToBanglaDigits substitutes ASCII digits with Bengali digit glyphs.
// Every other rune passes through unchanged.
func ToBanglaDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, r := range s {
		if bn, ok := banglaDigits[r]; ok {
			b.WriteRune(bn)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
