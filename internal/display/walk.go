package display

import "strings"

// Walk calls f for n and its descendants in depth-first pre-order. If f returns false, n's children are skipped.
func Walk(n *Node, f func(*Node) bool) {
	if n == nil {
		return
	}
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, f)
	}
}

// FindAll returns all nodes of kind under (and including) n, in document order.
func FindAll(n *Node, kind Kind) []*Node {
	var out []*Node
	Walk(n, func(x *Node) bool {
		if x.Kind == kind {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Find returns the first node of kind under (and including) n, or nil.
func Find(n *Node, kind Kind) *Node {
	var found *Node
	Walk(n, func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.Kind == kind {
			found = x
			return false
		}
		return true
	})
	return found
}

// PlainText concatenates the visible text of n's inline content, ignoring formatting. Code blocks contribute their code.
func PlainText(n *Node) string {
	var b strings.Builder
	Walk(n, func(x *Node) bool {
		switch x.Kind {
		case KindText, KindInlineCode, KindMath, KindBadge, KindCheckItem, KindLabel:
			b.WriteString(x.Text)
		case KindLineBreak:
			b.WriteByte('\n')
		case KindCodeBlock:
			b.WriteString(x.Code)
		case KindRow:
			b.WriteString(x.Text)
			b.WriteString(": ")
		}
		return true
	})
	return b.String()
}
