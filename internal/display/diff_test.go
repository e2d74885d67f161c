package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	lines := Diff("a\nb\nc\n", "a\nB\nc\n")
	assert.Equal(t, []DiffLine{
		{Op: DiffEqual, Text: "a"},
		{Op: DiffDelete, Text: "b"},
		{Op: DiffInsert, Text: "B"},
		{Op: DiffEqual, Text: "c"},
	}, lines)
	assert.True(t, Changed(lines))
	assert.Equal(t, "  a\n- b\n+ B\n  c\n", FormatDiff(lines))
}

func TestDiffUnchanged(t *testing.T) {
	lines := Diff("x\ny\n", "x\ny\n")
	assert.False(t, Changed(lines))
	assert.Len(t, lines, 2)
	assert.Empty(t, Diff("", ""))
}
