package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlToJSON converts a YAML document to JSON, keeping mapping key order so tool inputs print in the order they were written.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("transcript: decode yaml: %w", err)
	}
	w := &yamlWriter{
		expanding: make(map[*yaml.Node]bool),
		limit:     max(64*len(data), minYAMLNodeLimit),
	}
	if err := w.write(&doc); err != nil {
		return nil, fmt.Errorf("transcript: decode yaml: %w", err)
	}
	return w.buf.Bytes(), nil
}

// minYAMLNodeLimit is the floor of the node budget; the budget otherwise grows with the input size.
const minYAMLNodeLimit = 4096

// yamlWriter emits JSON for a YAML node tree. Aliases are expanded in place, so an alias that refers to one of its own
// ancestors is rejected, and the total number of emitted nodes is capped to stop alias fan-out from blowing up.
type yamlWriter struct {
	buf       bytes.Buffer
	expanding map[*yaml.Node]bool
	nodes     int
	limit     int
}

func (w *yamlWriter) write(n *yaml.Node) error {
	w.nodes++
	if w.nodes > w.limit {
		return fmt.Errorf("line %d: document expands past %d nodes", n.Line, w.limit)
	}
	buf := &w.buf
	switch n.Kind {
	case 0:
		buf.WriteString("null")
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return w.write(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		if w.expanding[n.Alias] {
			return fmt.Errorf("line %d: recursive alias %q", n.Line, n.Value)
		}
		w.expanding[n.Alias] = true
		err := w.write(n.Alias)
		delete(w.expanding, n.Alias)
		return err
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := marshalJSON(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := w.write(n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := w.write(c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		b, err := marshalJSON(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(b)
	default:
		return fmt.Errorf("line %d: unsupported yaml node", n.Line)
	}
	return nil
}

// marshalJSON is json.Marshal without HTML escaping and without the trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
