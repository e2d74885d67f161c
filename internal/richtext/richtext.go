// Package richtext converts markdown (CommonMark with GFM tables, strikethrough, task lists, autolinks, and $...$ math) into display nodes.
//
// Fenced and indented code blocks become code_block nodes whose language is the leading word characters of the info string ("c++" gives "c"), with a single
// trailing newline removed. Raw HTML is kept as html nodes; writers sanitize it. A Converter holds no per-call state and is safe for concurrent use.
package richtext

import (
	"strings"

	"github.com/agentdeck/agentdeck/internal/display"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// CursorGlyph marks code that is still streaming in. With Options.CursorPlaceholder, a code span or block that starts with it renders as a placeholder.
const CursorGlyph = "▍"

// Options control a single conversion.
type Options struct {
	CursorPlaceholder bool
}

// Converter converts markdown to display nodes.
type Converter struct {
	md goldmark.Markdown
}

// New returns a Converter with GFM and math enabled.
func New() *Converter {
	return &Converter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM, MathExtension)),
	}
}

var defaultConverter = New()

// Convert converts src with the default Converter.
func Convert(src string, opts Options) []*display.Node {
	return defaultConverter.Convert(src, opts)
}

// Convert converts src into a sequence of block nodes.
func (c *Converter) Convert(src string, opts Options) []*display.Node {
	source := []byte(src)
	doc := c.md.Parser().Parse(text.NewReader(source))
	cv := &conversion{src: source, opts: opts}
	return cv.blocks(doc)
}

// Inline converts src for single-line contexts such as titles. A lone paragraph or heading is unwrapped to its inline children.
func (c *Converter) Inline(src string) []*display.Node {
	nodes := c.Convert(src, Options{})
	if len(nodes) == 1 && (nodes[0].Kind == display.KindParagraph || nodes[0].Kind == display.KindHeading) {
		return nodes[0].Children
	}
	return nodes
}

type conversion struct {
	src  []byte
	opts Options
}

func (cv *conversion) blocks(parent ast.Node) []*display.Node {
	var out []*display.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, cv.block(c)...)
	}
	return out
}

func (cv *conversion) block(n ast.Node) []*display.Node {
	switch n := n.(type) {
	case *ast.Paragraph:
		return []*display.Node{display.Paragraph(cv.inlines(n)...)}
	case *ast.TextBlock:
		// Tight list items keep their text inline.
		return cv.inlines(n)
	case *ast.Heading:
		return []*display.Node{display.Heading(n.Level, cv.inlines(n)...)}
	case *ast.ThematicBreak:
		return []*display.Node{display.ThematicBreak()}
	case *ast.Blockquote:
		return []*display.Node{display.Blockquote(cv.blocks(n)...)}
	case *ast.List:
		start := 0
		if n.IsOrdered() {
			start = n.Start
		}
		return []*display.Node{display.List(n.IsOrdered(), start, cv.blocks(n)...)}
	case *ast.ListItem:
		li := display.ListItem(cv.blocks(n)...)
		if box := taskCheckBox(n); box != nil {
			checked := box.IsChecked
			li.Checked = &checked
		}
		return []*display.Node{li}
	case *ast.FencedCodeBlock:
		return []*display.Node{cv.code(string(leadingWord(n.Language(cv.src))), lineText(cv.src, n))}
	case *ast.CodeBlock:
		return []*display.Node{cv.code("", lineText(cv.src, n))}
	case *ast.HTMLBlock:
		raw := lineText(cv.src, n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(cv.src))
		}
		return []*display.Node{display.HTML(raw)}
	case *east.Table:
		return []*display.Node{cv.table(n)}
	default:
		return cv.blocks(n)
	}
}

func (cv *conversion) code(language, code string) *display.Node {
	code = strings.TrimSuffix(code, "\n")
	if cv.opts.CursorPlaceholder && strings.HasPrefix(code, CursorGlyph) {
		return display.Placeholder()
	}
	return display.CodeBlock(language, code)
}

func (cv *conversion) table(n *east.Table) *display.Node {
	tbl := display.Table()
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*east.TableHeader)
		r := display.TableRow(header)
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			align := ""
			if tc, ok := cell.(*east.TableCell); ok {
				align = alignName(tc.Alignment)
			}
			r.Append(display.TableCell(align, cv.inlines(cell)...))
		}
		tbl.Append(r)
	}
	return tbl
}

func alignName(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return "left"
	case east.AlignRight:
		return "right"
	case east.AlignCenter:
		return "center"
	default:
		return ""
	}
}

// inlines converts the inline children of parent, merging adjacent plain text.
func (cv *conversion) inlines(parent ast.Node) []*display.Node {
	var out []*display.Node
	afterCheckBox := false
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TaskCheckBox); ok {
			afterCheckBox = true
			continue
		}
		nodes := cv.inline(c)
		if afterCheckBox && len(nodes) > 0 && nodes[0].Kind == display.KindText {
			nodes[0].Text = strings.TrimLeft(nodes[0].Text, " ")
		}
		afterCheckBox = false
		out = append(out, nodes...)
	}
	return mergeText(out)
}

func (cv *conversion) inline(n ast.Node) []*display.Node {
	switch n := n.(type) {
	case *ast.Text:
		s := string(n.Segment.Value(cv.src))
		if !n.IsRaw() {
			s = unescape(s)
		}
		out := []*display.Node{display.Text(s)}
		switch {
		case n.HardLineBreak():
			out = append(out, display.LineBreak())
		case n.SoftLineBreak():
			out = append(out, display.Text(" "))
		}
		return out
	case *ast.String:
		return []*display.Node{display.Text(string(n.Value))}
	case *ast.CodeSpan:
		code := rawText(cv.src, n)
		if cv.opts.CursorPlaceholder && strings.HasPrefix(code, CursorGlyph) {
			return []*display.Node{display.Placeholder()}
		}
		return []*display.Node{display.InlineCode(code)}
	case *ast.Emphasis:
		if n.Level >= 2 {
			return []*display.Node{display.Strong(cv.inlines(n)...)}
		}
		return []*display.Node{display.Emphasis(cv.inlines(n)...)}
	case *east.Strikethrough:
		return []*display.Node{display.Strike(cv.inlines(n)...)}
	case *ast.Link:
		return []*display.Node{display.Link(string(n.Destination), cv.inlines(n)...)}
	case *ast.AutoLink:
		return []*display.Node{display.Link(string(n.URL(cv.src)), display.Text(string(n.Label(cv.src))))}
	case *ast.Image:
		return []*display.Node{display.Image(string(n.Destination), rawText(cv.src, n))}
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(cv.src))
		}
		return []*display.Node{display.HTML(b.String())}
	case *Math:
		return []*display.Node{display.Math(string(n.TeX), n.Display)}
	default:
		return cv.inlines(n)
	}
}

// taskCheckBox returns the GFM task checkbox opening li, or nil.
func taskCheckBox(li *ast.ListItem) *east.TaskCheckBox {
	first := li.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*east.TaskCheckBox)
	return box
}

// rawText concatenates the text under n without unescaping.
func rawText(src []byte, n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// lineText concatenates the source lines of a block node.
func lineText(src []byte, n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// leadingWord returns the leading [A-Za-z0-9_] characters of info.
func leadingWord(info []byte) []byte {
	i := 0
	for i < len(info) {
		c := info[i]
		if c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			i++
			continue
		}
		break
	}
	return info[:i]
}

func unescape(s string) string {
	if !strings.ContainsAny(s, `\&`) {
		return s
	}
	b := util.UnescapePunctuations([]byte(s))
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

func mergeText(nodes []*display.Node) []*display.Node {
	var out []*display.Node
	for _, n := range nodes {
		if n.Kind == display.KindText && n.Tone == display.ToneDefault && len(out) > 0 {
			last := out[len(out)-1]
			if last.Kind == display.KindText && last.Tone == display.ToneDefault {
				last.Text += n.Text
				continue
			}
		}
		out = append(out, n)
	}
	return out
}
