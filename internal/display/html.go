package display

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLOptions configures WriteHTML.
type HTMLOptions struct {
	// ToneClasses maps tones to CSS classes. Tones not present use DefaultToneClasses.
	ToneClasses map[Tone]string

	// Policy sanitizes raw HTML nodes. If nil, bluemonday's UGC policy is used.
	Policy *bluemonday.Policy
}

// DefaultToneClasses are the CSS classes used for tones unless overridden.
var DefaultToneClasses = map[Tone]string{
	ToneMuted: "text-muted",
	ToneError: "text-error",
}

// WriteHTML writes n as an HTML fragment. All text is escaped; raw HTML nodes are passed through the sanitizing policy; link and image URLs are limited to
// http(s), mailto, relative references, and (for images) data:image URIs.
func WriteHTML(w io.Writer, n *Node, opts HTMLOptions) error {
	hw := &htmlWriter{w: bufio.NewWriter(w), opts: opts}
	if hw.opts.Policy == nil {
		hw.opts.Policy = bluemonday.UGCPolicy()
	}
	hw.node(n)
	if hw.err != nil {
		return fmt.Errorf("display: write html: %w", hw.err)
	}
	if err := hw.w.Flush(); err != nil {
		return fmt.Errorf("display: write html: %w", err)
	}
	return nil
}

type htmlWriter struct {
	w    *bufio.Writer
	opts HTMLOptions
	err  error
}

func (hw *htmlWriter) write(parts ...string) {
	if hw.err != nil {
		return
	}
	for _, p := range parts {
		if _, err := hw.w.WriteString(p); err != nil {
			hw.err = err
			return
		}
	}
}

func (hw *htmlWriter) text(s string) {
	hw.write(html.EscapeString(s))
}

func (hw *htmlWriter) children(n *Node) {
	for _, c := range n.Children {
		hw.node(c)
	}
}

func (hw *htmlWriter) toneClass(t Tone) string {
	if t == ToneDefault {
		return ""
	}
	if c, ok := hw.opts.ToneClasses[t]; ok {
		return c
	}
	return DefaultToneClasses[t]
}

// open writes <tag class="...">, merging class with the node's tone class.
func (hw *htmlWriter) open(tag string, n *Node, class string) {
	var classes []string
	if class != "" {
		classes = append(classes, class)
	}
	if tc := hw.toneClass(n.Tone); tc != "" {
		classes = append(classes, tc)
	}
	if len(classes) == 0 {
		hw.write("<", tag, ">")
		return
	}
	hw.write("<", tag, ` class="`, html.EscapeString(strings.Join(classes, " ")), `">`)
}

func (hw *htmlWriter) wrap(tag string, n *Node, class string) {
	hw.open(tag, n, class)
	hw.children(n)
	hw.write("</", tag, ">")
}

// leaf writes <tag class="...">text</tag>.
func (hw *htmlWriter) leaf(tag string, n *Node, class string, text string) {
	hw.open(tag, n, class)
	hw.text(text)
	hw.write("</", tag, ">")
}

func (hw *htmlWriter) node(n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindBlock:
		hw.wrap("div", n, "block")
	case KindItem:
		hw.wrap("div", n, "item")

	case KindText:
		if hw.toneClass(n.Tone) != "" {
			hw.leaf("span", n, "", n.Text)
			return
		}
		hw.text(n.Text)
	case KindStrong:
		hw.wrap("strong", n, "")
	case KindEmphasis:
		hw.wrap("em", n, "")
	case KindStrike:
		hw.wrap("del", n, "")
	case KindInlineCode:
		hw.leaf("code", n, "", n.Text)
	case KindMath:
		if n.Display {
			hw.leaf("div", n, "math math-display", `\[`+n.Text+`\]`)
		} else {
			hw.leaf("span", n, "math math-inline", `\(`+n.Text+`\)`)
		}
	case KindLineBreak:
		hw.write("<br>")
	case KindLink:
		href, ok := safeURL(n.URL, false)
		if !ok {
			hw.children(n)
			return
		}
		hw.write(`<a href="`, html.EscapeString(href), `" target="_blank" rel="noopener noreferrer">`)
		hw.children(n)
		hw.write("</a>")
	case KindImage:
		src, ok := safeURL(n.URL, true)
		if !ok {
			hw.text(n.Text)
			return
		}
		hw.write(`<img src="`, html.EscapeString(src), `" alt="`, html.EscapeString(n.Text), `">`)
	case KindIcon:
		hw.write(`<span class="icon" data-icon="`, html.EscapeString(n.Text), `"></span>`)
	case KindBadge:
		hw.leaf("span", n, "badge", n.Text)

	case KindParagraph:
		hw.wrap("p", n, "")
	case KindHeading:
		level := n.Level
		if level < 1 || level > 6 {
			level = 6
		}
		tag := "h" + strconv.Itoa(level)
		hw.wrap(tag, n, "")
	case KindList:
		if !n.Ordered {
			hw.wrap("ul", n, "")
			return
		}
		if n.Start > 1 {
			hw.write(`<ol start="`, strconv.Itoa(n.Start), `">`)
		} else {
			hw.write("<ol>")
		}
		hw.children(n)
		hw.write("</ol>")
	case KindListItem:
		hw.open("li", n, "")
		if n.Checked != nil {
			if *n.Checked {
				hw.write(`<input type="checkbox" checked disabled> `)
			} else {
				hw.write(`<input type="checkbox" disabled> `)
			}
		}
		hw.children(n)
		hw.write("</li>")
	case KindBlockquote:
		hw.wrap("blockquote", n, "")
	case KindThematicBreak:
		hw.write("<hr>")
	case KindTable:
		hw.wrap("table", n, "")
	case KindTableRow:
		hw.write("<tr>")
		for _, cell := range n.Children {
			tag := "td"
			if n.Header {
				tag = "th"
			}
			if cell.Align != "" {
				hw.write("<", tag, ` style="text-align:`, html.EscapeString(cell.Align), `">`)
			} else {
				hw.write("<", tag, ">")
			}
			hw.children(cell)
			hw.write("</", tag, ">")
		}
		hw.write("</tr>")
	case KindTableCell:
		// Only reachable for a cell outside a row.
		hw.wrap("span", n, "")
	case KindHTML:
		hw.write(hw.opts.Policy.Sanitize(n.Text))
	case KindCodeBlock:
		hw.write(`<div class="code-block"><div class="code-language">`)
		hw.text(n.Language)
		hw.write(`</div><pre><code`)
		if n.Language != "" {
			hw.write(` class="language-`, html.EscapeString(n.Language), `"`)
		}
		hw.write(">")
		hw.text(n.Code)
		hw.write("</code></pre></div>")
	case KindPlaceholder:
		hw.write(`<span class="placeholder"></span>`)

	case KindDetails:
		hw.open("details", n, "")
		hw.write("<summary>")
		hw.text(n.Text)
		hw.write("</summary><div>")
		hw.children(n)
		hw.write("</div></details>")
	case KindPanel:
		hw.open("div", n, "panel")
		hw.write(`<div class="panel-title">`)
		hw.text(n.Text)
		hw.write("</div>")
		hw.children(n)
		hw.write("</div>")
	case KindBreadcrumb:
		hw.wrap("div", n, "breadcrumb")
	case KindChecklist:
		hw.wrap("ul", n, "checklist")
	case KindCheckItem:
		hw.leaf("li", n, "", n.Text)
	case KindLabel:
		hw.open("div", n, "label")
		hw.write("<strong>")
		hw.text(n.Text)
		hw.write(":</strong></div>")
	case KindRow:
		hw.open("div", n, "row")
		hw.write("<strong>")
		hw.text(n.Text)
		hw.write(":</strong> ")
		hw.children(n)
		hw.write("</div>")
	case KindError:
		hw.wrap("div", n, "error")
	case KindHeader:
		hw.wrap("div", n, "header")
	case KindDuration:
		hw.write(`<span class="duration" data-chat-id="`, html.EscapeString(n.ChatID), `">`)
		hw.text(FormatDuration(n.Duration))
		hw.write("</span>")

	default:
		hw.wrap("div", n, "")
	}
}

// safeURL returns raw if it is safe to emit as a link (or, if image, an image source).
func safeURL(raw string, image bool) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if image && strings.HasPrefix(strings.ToLower(raw), "data:image/") {
		return raw, true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return raw, true
	case "mailto":
		return raw, !image
	default:
		return "", false
	}
}
