package display

import (
	"fmt"
	"strconv"
	"strings"
)

// Outline returns a compact, line-per-node dump of the tree. It is meant for debugging and for readable expectations in tests:
//
//	item
//	  checklist
//	    check_item "⬜ a"
func Outline(n *Node) string {
	var b strings.Builder
	outline(&b, n, 0)
	return b.String()
}

func outline(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(n.Kind))

	var attrs []string
	if n.Tone != ToneDefault {
		attrs = append(attrs, "tone="+string(n.Tone))
	}
	if n.Language != "" {
		attrs = append(attrs, "lang="+n.Language)
	}
	if n.URL != "" {
		attrs = append(attrs, "url="+n.URL)
	}
	if n.Level != 0 {
		attrs = append(attrs, fmt.Sprintf("level=%d", n.Level))
	}
	if n.Ordered {
		attrs = append(attrs, fmt.Sprintf("ordered start=%d", n.Start))
	}
	if n.Checked != nil {
		attrs = append(attrs, fmt.Sprintf("checked=%t", *n.Checked))
	}
	if n.Align != "" {
		attrs = append(attrs, "align="+n.Align)
	}
	if n.Header {
		attrs = append(attrs, "header")
	}
	if n.Display {
		attrs = append(attrs, "display")
	}
	if n.Kind == KindDuration {
		attrs = append(attrs, "ms="+strconv.FormatFloat(n.Duration, 'f', -1, 64), "chat="+n.ChatID)
	}
	if len(attrs) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(attrs, " "))
	}
	if n.Text != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Text))
	}
	if n.Kind == KindCodeBlock {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Code))
	}
	b.WriteByte('\n')

	for _, c := range n.Children {
		outline(b, c, depth+1)
	}
}
