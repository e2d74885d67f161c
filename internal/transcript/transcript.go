// Package transcript loads chat transcripts: an ordered list of content items plus the chat id and playground flag they are rendered with.
//
// Accepted shapes are a JSON object {"chat_id", "playground", "items"}, a bare JSON array of items, JSON Lines (one item per line), and YAML with the object
// shape. Errors name the offending item by index.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentdeck/agentdeck/internal/content"
)

// Format is an on-disk transcript encoding.
type Format string

const (
	FormatAuto  Format = ""      // detect from content: object, array, or JSON Lines
	FormatJSON  Format = "json"  // object or array
	FormatJSONL Format = "jsonl" // one item per line
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned for a Format this package cannot decode.
var ErrUnknownFormat = errors.New("transcript: unknown format")

// Transcript is what one render call consumes.
type Transcript struct {
	ChatID     string         `json:"chat_id,omitempty"`
	Playground bool           `json:"playground,omitempty"`
	Items      []content.Item `json:"items"`
}

// wireTranscript defers item decoding so errors can carry the item index.
type wireTranscript struct {
	ChatID     string            `json:"chat_id"`
	Playground bool              `json:"playground"`
	Items      []json.RawMessage `json:"items"`
}

// FormatForPath guesses the format from a file extension. Unrecognized extensions give FormatAuto.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseFormat parses a format name as used on the command line. The empty string and "auto" give FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "auto", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Load reads the transcript at path, choosing the format from its extension.
func Load(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	defer f.Close()

	t, err := Decode(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode reads a transcript in format f from r.
func Decode(r io.Reader, f Format) (*Transcript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("transcript: read: %w", err)
	}

	switch f {
	case FormatAuto, FormatJSON:
		return decodeJSON(data, f == FormatAuto)
	case FormatJSONL:
		return decodeJSONLines(data)
	case FormatYAML:
		js, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		return decodeJSON(js, false)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// decodeJSON decodes an object or array transcript. If allowLines, input holding more than one JSON value is read as JSON Lines.
func decodeJSON(data []byte, allowLines bool) (*Transcript, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Transcript{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return nil, fmt.Errorf("transcript: decode: %w", err)
	}
	if dec.More() {
		if allowLines {
			return decodeJSONLines(trimmed)
		}
		return nil, errors.New("transcript: decode: unexpected data after transcript")
	}

	switch first[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(first, &raws); err != nil {
			return nil, fmt.Errorf("transcript: decode: %w", err)
		}
		items, err := decodeItems(raws)
		if err != nil {
			return nil, err
		}
		return &Transcript{Items: items}, nil
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(first, &probe); err != nil {
			return nil, fmt.Errorf("transcript: decode: %w", err)
		}
		if _, ok := probe["items"]; !ok {
			if _, isItem := probe["type"]; isItem {
				items, err := decodeItems([]json.RawMessage{first})
				if err != nil {
					return nil, err
				}
				return &Transcript{Items: items}, nil
			}
		}
		var w wireTranscript
		if err := json.Unmarshal(first, &w); err != nil {
			return nil, fmt.Errorf("transcript: decode: %w", err)
		}
		items, err := decodeItems(w.Items)
		if err != nil {
			return nil, err
		}
		return &Transcript{ChatID: w.ChatID, Playground: w.Playground, Items: items}, nil
	default:
		return nil, errors.New("transcript: decode: expected a JSON object or array")
	}
}

func decodeJSONLines(data []byte) (*Transcript, error) {
	t := &Transcript{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var it content.Item
		if err := json.Unmarshal(text, &it); err != nil {
			return nil, fmt.Errorf("transcript: item %d (line %d): %w", len(t.Items), line, err)
		}
		t.Items = append(t.Items, it)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("transcript: read lines: %w", err)
	}
	return t, nil
}

func decodeItems(raws []json.RawMessage) ([]content.Item, error) {
	items := make([]content.Item, 0, len(raws))
	for i, raw := range raws {
		var it content.Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("transcript: item %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// Encode writes t as an indented JSON object.
func Encode(w io.Writer, t *Transcript) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("transcript: encode: %w", err)
	}
	return nil
}
