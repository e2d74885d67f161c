package display

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes n as indented JSON followed by a newline.
func WriteJSON(w io.Writer, n *Node) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("display: write json: %w", err)
	}
	return nil
}
