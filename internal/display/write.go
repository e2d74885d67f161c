package display

import (
	"errors"
	"fmt"
	"io"
)

// Output formats accepted by Write.
const (
	FormatText    = "text"
	FormatHTML    = "html"
	FormatJSON    = "json"
	FormatOutline = "outline"
)

var ErrUnknownFormat = errors.New("display: unknown output format")

// WriteOptions holds the per-writer options used by Write.
type WriteOptions struct {
	Text TextOptions
	HTML HTMLOptions
}

// Write writes n to w in format. An unknown format wraps ErrUnknownFormat and writes nothing.
func Write(w io.Writer, n *Node, format string, opts WriteOptions) error {
	switch format {
	case FormatText:
		return writeString(w, RenderText(n, opts.Text))
	case FormatHTML:
		return WriteHTML(w, n, opts.HTML)
	case FormatJSON:
		return WriteJSON(w, n)
	case FormatOutline:
		return writeString(w, Outline(n))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("display: write: %w", err)
	}
	return nil
}
