// Package contentdisplay renders transcript items into display trees.
//
// Render is a pure function of its inputs: it never fails, never panics on a decoded item, and returns structurally identical trees for identical inputs, so a
// transcript that is re-rendered while it streams in converges stably. Every item renders as an item node holding an optional header, an optional duration
// badge (suppressed in playground mode), and the body.
//
// Bodies are chosen by item type. Tool-use items are further dispatched by tool name; unknown tools, and known tools whose output does not fit their dedicated
// view, use a generic input/output/error view.
package contentdisplay

import (
	"strconv"

	"github.com/agentdeck/agentdeck/internal/content"
	"github.com/agentdeck/agentdeck/internal/display"
	"github.com/agentdeck/agentdeck/internal/richtext"
)

// IconResolver maps a header icon name to the icon to display. If ok is false, no icon is shown.
type IconResolver interface {
	ResolveIcon(name string) (icon string, ok bool)
}

// IconResolverFunc adapts a function to IconResolver.
type IconResolverFunc func(name string) (string, bool)

func (f IconResolverFunc) ResolveIcon(name string) (string, bool) {
	return f(name)
}

// Options configure a Renderer. The zero value is usable.
type Options struct {
	Icons    IconResolver       // if nil, icon names are shown as given
	RichText *richtext.Converter // if nil, richtext.New() is used
}

// Renderer renders items. It is safe for concurrent use.
type Renderer struct {
	icons IconResolver
	rt    *richtext.Converter
}

// New returns a Renderer configured by opts.
func New(opts Options) *Renderer {
	r := &Renderer{icons: opts.Icons, rt: opts.RichText}
	if r.rt == nil {
		r.rt = richtext.New()
	}
	return r
}

var defaultRenderer = New(Options{})

// Render renders item with the default Renderer.
func Render(item content.Item, chatID string, playground bool) *display.Node {
	return defaultRenderer.Render(item, chatID, playground)
}

// RenderAll renders items with the default Renderer.
func RenderAll(items []content.Item, chatID string, playground bool) *display.Node {
	return defaultRenderer.RenderAll(items, chatID, playground)
}

// RenderAll renders items as a block with one item node per item, in order.
func (r *Renderer) RenderAll(items []content.Item, chatID string, playground bool) *display.Node {
	b := display.Block()
	for _, it := range items {
		b.Append(r.Render(it, chatID, playground))
	}
	return b
}

// Render renders a single item. chatID is attached to the duration badge. In playground mode the duration badge is omitted.
func (r *Renderer) Render(item content.Item, chatID string, playground bool) *display.Node {
	n := display.Item(r.header(item.Header))
	if item.Duration != nil && !playground {
		n.Append(display.DurationBadge(*item.Duration, chatID))
	}
	n.Append(r.body(item.Body))
	return n
}

func (r *Renderer) header(h *content.Header) *display.Node {
	if h == nil {
		return nil
	}
	n := display.Header()
	if h.Icon != "" {
		icon, ok := h.Icon, true
		if r.icons != nil {
			icon, ok = r.icons.ResolveIcon(h.Icon)
		}
		if ok {
			n.Append(display.Icon(icon))
		}
	}
	if h.Title != "" {
		n.Append(r.rt.Inline(h.Title)...)
	}
	return n
}

func (r *Renderer) body(body content.Body) *display.Node {
	switch b := body.(type) {
	case content.Text:
		return display.Block(r.rich(b.Text, richtext.Options{CursorPlaceholder: true})...)
	case content.Code:
		return display.CodeBlock(b.Language, b.Code)
	case content.JSON:
		return display.CodeBlock("json", b.Data.Indent())
	case content.Error:
		return renderError(b)
	case content.ToolUse:
		return r.toolUse(b)
	case content.Media:
		return renderMedia(b)
	default:
		// content.Unknown and nil render header and duration only.
		return nil
	}
}

func (r *Renderer) rich(md string, opts richtext.Options) []*display.Node {
	return r.rt.Convert(md, opts)
}

func renderError(e content.Error) *display.Node {
	n := display.ErrorBlock()
	if e.Reason != "" {
		n.Append(display.Row("Reason", display.Text(e.Reason)))
	}
	if e.Solution != "" {
		n.Append(display.Row("Solution", display.Text(e.Solution)))
	}
	if e.Traceback != "" {
		n.Append(display.CodeBlock("text", e.Traceback))
	}
	return n
}

func renderMedia(m content.Media) *display.Node {
	n := display.Block()
	for i, url := range m.URLs {
		alt := m.Caption
		if alt == "" {
			alt = "Media " + strconv.Itoa(i)
		}
		n.Append(display.Paragraph(display.Image(url, alt)))
	}
	if m.Caption != "" {
		n.Append(display.Paragraph(display.Text(m.Caption)))
	}
	return n
}
