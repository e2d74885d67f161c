package display

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// widthCond measures text for a non-East Asian terminal locale.
var widthCond = func() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	return cond
}()

// TextWidth returns the width of s in columns of a monospace terminal.
func TextWidth(s string) int {
	return widthCond.StringWidth(s)
}

// Wrap word-wraps s to width columns. Existing newlines are kept. Words wider than width are split between grapheme clusters. If width <= 0, s is only split
// into lines.
func Wrap(s string, width int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

func wrapLine(line string, width int) []string {
	if width <= 0 || TextWidth(line) <= width {
		return []string{line}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(line) {
		w := TextWidth(word)
		if curWidth > 0 && curWidth+1+w <= width {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + w
			continue
		}
		if curWidth > 0 {
			flush()
		}
		if w <= width {
			cur.WriteString(word)
			curWidth = w
			continue
		}

		iter := graphemes.FromString(word)
		for iter.Next() {
			g := iter.Value()
			gw := widthCond.StringWidth(g)
			if curWidth > 0 && curWidth+gw > width {
				flush()
			}
			cur.WriteString(g)
			curWidth += gw
		}
	}
	if curWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
