// Package displaytesting provides helpers for tests that assert on display trees. Expected trees are written as indented outlines (see display.Outline) and
// compared after Dedent, so fixtures can be indented along with the surrounding test code.
package displaytesting

import (
	"strings"
	"testing"

	"github.com/agentdeck/agentdeck/internal/display"

	"github.com/stretchr/testify/assert"
)

// Dedent removes the common leading indentation from each non-blank line in s. Spaces and tabs both count as indentation. Blank-only lines do not affect the indent;
// leading and trailing blank lines are trimmed. The result has no trailing whitespace and always ends with a single '\n'.
func Dedent(s string) string {
	s = strings.Trim(s, "\n")
	lines := strings.Split(s, "\n")

	min := -1
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		indent := len(line) - len(trimmed)
		if min == -1 || indent < min {
			min = indent
		}
	}

	if min > 0 {
		for i, line := range lines {
			if len(line) >= min {
				lines[i] = line[min:]
			}
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n") + "\n"
}

// AssertOutline asserts that the outline of n equals want after dedenting.
func AssertOutline(t *testing.T, want string, n *display.Node) bool {
	t.Helper()
	return assert.Equal(t, Dedent(want), display.Outline(n))
}

// AssertText asserts that the terminal rendering of n at width equals want after dedenting.
func AssertText(t *testing.T, want string, n *display.Node, width int) bool {
	t.Helper()
	return assert.Equal(t, Dedent(want), display.RenderText(n, display.TextOptions{Width: width}))
}
