package display

import (
	"html"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	ptext "github.com/jedib0t/go-pretty/v6/text"
	"github.com/microcosm-cc/bluemonday"
)

// TextOptions configures RenderText.
type TextOptions struct {
	// Width is the column width paragraphs are wrapped to. If <= 0, paragraphs are not wrapped.
	Width int

	// Policy strips raw HTML nodes down to text. If nil, bluemonday's strict policy is used.
	Policy *bluemonday.Policy
}

// RenderText renders n as plain terminal text. Icons are omitted and tones are not shown. All text passes through Sanitize. The result ends in a newline
// unless it is empty.
func RenderText(n *Node, opts TextOptions) string {
	tw := &textWriter{opts: opts}
	if tw.opts.Policy == nil {
		tw.opts.Policy = bluemonday.StrictPolicy()
	}
	lines := tw.block(n, opts.Width)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

type textWriter struct {
	opts TextOptions
}

// isInline reports whether nodes of kind k flow within a line.
func isInline(k Kind) bool {
	switch k {
	case KindText, KindStrong, KindEmphasis, KindStrike, KindInlineCode, KindMath, KindLineBreak, KindLink, KindImage, KindIcon, KindBadge, KindPlaceholder:
		return true
	}
	return false
}

// block renders n as lines no wider than width (where wrapping is possible).
func (tw *textWriter) block(n *Node, width int) []string {
	if n == nil {
		return nil
	}
	if isInline(n.Kind) {
		return tw.para([]*Node{n}, width)
	}

	switch n.Kind {
	case KindBlock:
		return tw.stack(n.Children, width, true)
	case KindItem:
		return tw.item(n, width)
	case KindParagraph:
		return tw.para(n.Children, width)
	case KindHeading:
		return Wrap(strings.Repeat("#", max(n.Level, 1))+" "+tw.inlines(n.Children), width)
	case KindList:
		return tw.list(n, width)
	case KindListItem:
		return tw.stack(n.Children, width, false)
	case KindBlockquote:
		return indent(tw.stack(n.Children, width-2, true), "> ", "> ")
	case KindThematicBreak:
		w := width
		if w <= 0 || w > 40 {
			w = 40
		}
		return []string{strings.Repeat("─", w)}
	case KindTable:
		return tw.table(n, width)
	case KindHTML:
		s := strings.TrimSpace(Sanitize(html.UnescapeString(tw.opts.Policy.Sanitize(n.Text))))
		if s == "" {
			return nil
		}
		return Wrap(s, width)
	case KindCodeBlock:
		lines := []string{"```" + Sanitize(n.Language)}
		if n.Code != "" {
			lines = append(lines, strings.Split(Sanitize(n.Code), "\n")...)
		}
		return append(lines, "```")
	case KindDetails:
		lines := Wrap("▸ "+Sanitize(n.Text), width)
		return append(lines, indent(tw.stack(n.Children, width-2, true), "  ", "  ")...)
	case KindPanel:
		lines := Wrap("┌ "+Sanitize(n.Text), width)
		return append(lines, indent(tw.stack(n.Children, width-2, true), "│ ", "│ ")...)
	case KindBreadcrumb:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			parts = append(parts, tw.inline(c))
		}
		if len(parts) == 0 {
			return nil
		}
		return Wrap(strings.Join(parts, " "), width)
	case KindChecklist:
		var lines []string
		for _, c := range n.Children {
			lines = append(lines, tw.block(c, width)...)
		}
		return lines
	case KindCheckItem:
		return Wrap(Sanitize(n.Text), width)
	case KindLabel:
		return []string{Sanitize(n.Text) + ":"}
	case KindRow:
		return Wrap(Sanitize(n.Text)+": "+tw.inlines(n.Children), width)
	case KindError:
		return tw.stack(n.Children, width, false)
	case KindHeader:
		return Wrap(strings.TrimSpace(tw.inlines(n.Children)), width)
	case KindDuration:
		return []string{FormatDuration(n.Duration)}
	default:
		return tw.stack(n.Children, width, false)
	}
}

// item renders the header and duration of an item on one line, followed by the body.
func (tw *textWriter) item(n *Node, width int) []string {
	var head []string
	var body []*Node
	for _, c := range n.Children {
		switch c.Kind {
		case KindHeader:
			if s := strings.TrimSpace(tw.inlines(c.Children)); s != "" {
				head = append(head, s)
			}
		case KindDuration:
			head = append(head, "("+FormatDuration(c.Duration)+")")
		default:
			body = append(body, c)
		}
	}
	var lines []string
	if len(head) > 0 {
		lines = Wrap(strings.Join(head, " "), width)
	}
	return append(lines, tw.stack(body, width, true)...)
}

// stack renders children top to bottom. Runs of inline children form one paragraph. If gap, block children are separated by a blank line.
func (tw *textWriter) stack(children []*Node, width int, gap bool) []string {
	var lines []string
	var run []*Node
	add := func(more []string) {
		if len(more) == 0 {
			return
		}
		if gap && len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, more...)
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		if isInline(c.Kind) {
			run = append(run, c)
			continue
		}
		if len(run) > 0 {
			add(tw.para(run, width))
			run = nil
		}
		add(tw.block(c, width))
	}
	if len(run) > 0 {
		add(tw.para(run, width))
	}
	return lines
}

func (tw *textWriter) para(children []*Node, width int) []string {
	s := tw.inlines(children)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Wrap(s, width)
}

func (tw *textWriter) list(n *Node, width int) []string {
	var lines []string
	num := n.Start
	if num == 0 {
		num = 1
	}
	for _, li := range n.Children {
		marker := "- "
		if n.Ordered {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		if li.Checked != nil {
			if *li.Checked {
				marker += "[x] "
			} else {
				marker += "[ ] "
			}
		}
		pad := strings.Repeat(" ", TextWidth(marker))
		body := tw.block(li, width-len(pad))
		if len(body) == 0 {
			body = []string{""}
		}
		lines = append(lines, indent(body, marker, pad)...)
	}
	return lines
}

func (tw *textWriter) table(n *Node, width int) []string {
	t := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = ptext.FormatDefault
	t.SetStyle(style)
	if width > 0 {
		t.SetAllowedRowLength(width)
	}

	var configs []table.ColumnConfig
	for i, row := range n.Children {
		cells := make(table.Row, 0, len(row.Children))
		for j, cell := range row.Children {
			cells = append(cells, tw.inlines(cell.Children))
			if i == 0 && cell.Align != "" {
				configs = append(configs, table.ColumnConfig{Number: j + 1, Align: textAlign(cell.Align)})
			}
		}
		if row.Header {
			t.AppendHeader(cells)
		} else {
			t.AppendRow(cells)
		}
	}
	t.SetColumnConfigs(configs)
	return strings.Split(t.Render(), "\n")
}

func textAlign(a string) ptext.Align {
	switch a {
	case "center":
		return ptext.AlignCenter
	case "right":
		return ptext.AlignRight
	default:
		return ptext.AlignLeft
	}
}

func (tw *textWriter) inlines(children []*Node) string {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(tw.inline(c))
	}
	return b.String()
}

// inline renders n as a single run of text. Block nodes met inline are flattened.
func (tw *textWriter) inline(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindText:
		return Sanitize(n.Text)
	case KindStrong, KindEmphasis:
		return tw.inlines(n.Children)
	case KindStrike:
		return "~~" + tw.inlines(n.Children) + "~~"
	case KindInlineCode:
		return "`" + Sanitize(n.Text) + "`"
	case KindMath:
		if n.Display {
			return "$$" + Sanitize(n.Text) + "$$"
		}
		return "$" + Sanitize(n.Text) + "$"
	case KindLineBreak:
		return "\n"
	case KindLink:
		url := Sanitize(n.URL)
		label := tw.inlines(n.Children)
		if label == "" || label == url {
			return url
		}
		return label + " (" + url + ")"
	case KindImage:
		return "[image: " + Sanitize(n.Text) + "] (" + Sanitize(n.URL) + ")"
	case KindIcon:
		return ""
	case KindBadge:
		return "[" + Sanitize(n.Text) + "]"
	case KindPlaceholder:
		return "▍"
	case KindDuration:
		return FormatDuration(n.Duration)
	default:
		return strings.Join(tw.block(n, 0), " ")
	}
}

// indent prefixes the first line with first and the rest with rest.
func indent(lines []string, first, rest string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		out[i] = strings.TrimRight(p+l, " ")
	}
	return out
}
