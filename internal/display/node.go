// Package display is the display tree produced by rendering transcript items, plus writers that turn a tree into JSON, an HTML fragment, or terminal text.
//
// A tree is made of *Node values. Every node has a Kind; the other fields are meaningful only for some kinds (documented on the Kind constants). Trees are plain
// data: they hold no references to the items they were rendered from and compare with reflect.DeepEqual.
package display

// Kind identifies what a Node displays.
type Kind string

// Structural kinds.
const (
	KindBlock Kind = "block" // vertical stack of Children
	KindItem  Kind = "item"  // frame of one transcript item: optional header, optional duration, then the body
)

// Inline kinds.
const (
	KindText       Kind = "text"        // Text
	KindStrong     Kind = "strong"      // Children
	KindEmphasis   Kind = "emphasis"    // Children
	KindStrike     Kind = "strike"      // Children
	KindInlineCode Kind = "inline_code" // Text
	KindMath       Kind = "math"        // Text (TeX source); Display for $$...$$
	KindLineBreak  Kind = "line_break"
	KindLink       Kind = "link"  // URL, Children
	KindImage      Kind = "image" // URL, Text (alt)
	KindIcon       Kind = "icon"  // Text (resolved icon name)
	KindBadge      Kind = "badge" // Text
)

// Rich-text block kinds.
const (
	KindParagraph     Kind = "paragraph" // Children
	KindHeading       Kind = "heading"   // Level, Children
	KindList          Kind = "list"      // Ordered, Start, Children (list_item)
	KindListItem      Kind = "list_item" // Checked (task lists), Children
	KindBlockquote    Kind = "blockquote"
	KindThematicBreak Kind = "thematic_break"
	KindTable         Kind = "table"      // Children (table_row)
	KindTableRow      Kind = "table_row"  // Header, Children (table_cell)
	KindTableCell     Kind = "table_cell" // Align, Children
	KindHTML          Kind = "html"       // Text (raw, unsanitized)
	KindCodeBlock     Kind = "code_block" // Language, Code
	KindPlaceholder   Kind = "placeholder"
)

// Widget kinds.
const (
	KindDetails    Kind = "details"    // Text (summary), Children (collapsed content)
	KindPanel      Kind = "panel"      // Text (title), Children
	KindBreadcrumb Kind = "breadcrumb" // Children (inline)
	KindChecklist  Kind = "checklist"  // Children (check_item)
	KindCheckItem  Kind = "check_item" // Text
	KindLabel      Kind = "label"      // Text
	KindRow        Kind = "row"        // Text (label), Children (inline value)
	KindError      Kind = "error"      // Children
	KindHeader     Kind = "header"     // Children (icon, title inlines)
	KindDuration   Kind = "duration"   // Duration, ChatID
)

// Tone is the emphasis a node is shown with. Writers map tones to colors or CSS classes.
type Tone string

const (
	ToneDefault Tone = ""
	ToneMuted   Tone = "muted"
	ToneError   Tone = "error"
)

// Node is one element of a display tree.
type Node struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
	Tone Tone   `json:"tone,omitempty"`

	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`

	URL     string `json:"url,omitempty"`
	Level   int    `json:"level,omitempty"`
	Ordered bool   `json:"ordered,omitempty"`
	Start   int    `json:"start,omitempty"`
	Checked *bool  `json:"checked,omitempty"`
	Align   string `json:"align,omitempty"`
	Header  bool   `json:"header,omitempty"`
	Display bool   `json:"display,omitempty"`

	Duration float64 `json:"duration,omitempty"` // milliseconds
	ChatID   string  `json:"chat_id,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Append adds children to n and returns n. Nil children are skipped.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// WithTone sets n's tone and returns n.
func (n *Node) WithTone(t Tone) *Node {
	n.Tone = t
	return n
}

func container(kind Kind, children []*Node) *Node {
	return (&Node{Kind: kind}).Append(children...)
}

func Block(children ...*Node) *Node {
	return container(KindBlock, children)
}

func Item(children ...*Node) *Node {
	return container(KindItem, children)
}

func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

func Strong(children ...*Node) *Node {
	return container(KindStrong, children)
}

func Emphasis(children ...*Node) *Node {
	return container(KindEmphasis, children)
}

func Strike(children ...*Node) *Node {
	return container(KindStrike, children)
}

func InlineCode(s string) *Node {
	return &Node{Kind: KindInlineCode, Text: s}
}

func Math(tex string, displayMode bool) *Node {
	return &Node{Kind: KindMath, Text: tex, Display: displayMode}
}

func LineBreak() *Node {
	return &Node{Kind: KindLineBreak}
}

func Link(url string, children ...*Node) *Node {
	n := container(KindLink, children)
	n.URL = url
	return n
}

func Image(url, alt string) *Node {
	return &Node{Kind: KindImage, URL: url, Text: alt}
}

func Icon(name string) *Node {
	return &Node{Kind: KindIcon, Text: name}
}

func Badge(s string) *Node {
	return &Node{Kind: KindBadge, Text: s}
}

func Paragraph(children ...*Node) *Node {
	return container(KindParagraph, children)
}

func Heading(level int, children ...*Node) *Node {
	n := container(KindHeading, children)
	n.Level = level
	return n
}

func List(ordered bool, start int, items ...*Node) *Node {
	n := container(KindList, items)
	n.Ordered = ordered
	n.Start = start
	return n
}

func ListItem(children ...*Node) *Node {
	return container(KindListItem, children)
}

func Blockquote(children ...*Node) *Node {
	return container(KindBlockquote, children)
}

func ThematicBreak() *Node {
	return &Node{Kind: KindThematicBreak}
}

func Table(rows ...*Node) *Node {
	return container(KindTable, rows)
}

func TableRow(header bool, cells ...*Node) *Node {
	n := container(KindTableRow, cells)
	n.Header = header
	return n
}

func TableCell(align string, children ...*Node) *Node {
	n := container(KindTableCell, children)
	n.Align = align
	return n
}

func HTML(raw string) *Node {
	return &Node{Kind: KindHTML, Text: raw}
}

// CodeBlock is the code panel: a labeled, copyable block of code in language.
func CodeBlock(language, code string) *Node {
	return &Node{Kind: KindCodeBlock, Language: language, Code: code}
}

// Placeholder stands in for content that is still streaming in.
func Placeholder() *Node {
	return &Node{Kind: KindPlaceholder}
}

// Details is a collapsed disclosure labeled summary.
func Details(summary string, children ...*Node) *Node {
	n := container(KindDetails, children)
	n.Text = summary
	return n
}

func Panel(title string, children ...*Node) *Node {
	n := container(KindPanel, children)
	n.Text = title
	return n
}

func Breadcrumb(children ...*Node) *Node {
	return container(KindBreadcrumb, children)
}

func Checklist(items ...*Node) *Node {
	return container(KindChecklist, items)
}

func CheckItem(s string) *Node {
	return &Node{Kind: KindCheckItem, Text: s}
}

func Label(s string) *Node {
	return &Node{Kind: KindLabel, Text: s}
}

// Row is a "label: value" line.
func Row(label string, value ...*Node) *Node {
	n := container(KindRow, value)
	n.Text = label
	return n
}

// ErrorBlock groups children that describe a failure. It is always error-toned.
func ErrorBlock(children ...*Node) *Node {
	return container(KindError, children).WithTone(ToneError)
}

func Header(children ...*Node) *Node {
	return container(KindHeader, children)
}

// DurationBadge is the elapsed-time indicator for an item of chatID.
func DurationBadge(ms float64, chatID string) *Node {
	return &Node{Kind: KindDuration, Duration: ms, ChatID: chatID}
}
