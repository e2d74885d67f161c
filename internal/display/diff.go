package display

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp marks a line of a rendering diff.
type DiffOp byte

const (
	DiffEqual  DiffOp = ' '
	DiffInsert DiffOp = '+'
	DiffDelete DiffOp = '-'
)

// DiffLine is one line of a rendering diff. Text has no trailing newline.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// Diff returns a line diff from oldText to newText. It is meant for comparing two text renderings of a transcript.
func Diff(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	var out []DiffLine
	for _, d := range diffs {
		var op DiffOp
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = DiffEqual
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		for _, r := range d.Text {
			idx := int(r)
			if idx < 0 || idx >= len(lineArray) {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(lineArray[idx], "\n")})
		}
	}
	return out
}

// Changed reports whether lines contain any insertion or deletion.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}

// FormatDiff formats lines as "+ text", "- text", and "  text", one per line.
func FormatDiff(lines []DiffLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteByte(byte(l.Op))
		b.WriteByte(' ')
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
