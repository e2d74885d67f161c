package contentdisplay

import (
	"math"
	"unicode/utf16"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// formatInt formats n with thousands separators ("1,234").
func formatInt(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// charCount is the length of s in UTF-16 code units, so astral characters count twice.
func charCount(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// chars formats a character count: "1,234 chars".
func chars(n int) string {
	return formatInt(n) + " chars"
}

// reductionPercent returns round((1 - out/in) * 100), rounding halves up. in must be positive.
func reductionPercent(in, out int) int {
	return int(math.Floor((1-float64(out)/float64(in))*100 + 0.5))
}
