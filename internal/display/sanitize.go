package display

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789ABCDEF"

// tabWidth is the number of spaces a tab expands to in text output.
const tabWidth = 4

// Sanitize makes transcript text safe to print to a terminal.
//   - \t becomes tabWidth spaces; \n is kept; \r\n becomes \n.
//   - Other C0 controls and DEL become "\xXX" (ESC is "\x1B"), so escape sequences in a transcript cannot drive the terminal.
//   - C1 controls (U+0080..U+009F) become "\u00XX".
//   - Invalid UTF-8 becomes U+FFFD.
func Sanitize(s string) string {
	if s == "" || isClean(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			i++
			continue
		}
		i += size

		switch {
		case r == '\t':
			b.WriteString(strings.Repeat(" ", tabWidth))
		case r == '\n':
			b.WriteByte('\n')
		case r == '\r' && i < len(s) && s[i] == '\n':
			// dropped; the \n follows
		case r < 0x20 || r == 0x7F:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[r>>4])
			b.WriteByte(hexDigits[r&0x0F])
		case r >= 0x80 && r <= 0x9F:
			b.WriteString(`\u00`)
			b.WriteString(strings.ToUpper(strconv.FormatInt(int64(r), 16)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isClean reports whether s needs no changes from Sanitize.
func isClean(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError || r == '\t' || r == 0x7F || (r < 0x20 && r != '\n') || (r >= 0x80 && r <= 0x9F) {
			return false
		}
	}
	return true
}
