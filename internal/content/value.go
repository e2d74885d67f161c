package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is an arbitrary JSON value, as found in tool inputs, tool outputs, and json items.
//
// A Value decoded from JSON remembers the bytes it came from, so Indent reproduces the author's key order instead of Go's sorted map order. Numbers decode as
// json.Number. The zero Value is "absent" (the key was not present at all), which is distinct from a present JSON null.
type Value struct {
	v   any
	raw json.RawMessage
	set bool
}

// ValueOf wraps a Go value. v should be something encoding/json can marshal.
func ValueOf(v any) Value {
	return Value{v: v, set: true}
}

// IsZero reports whether the value is absent. It makes `omitzero` drop absent values when encoding.
func (v Value) IsZero() bool {
	return !v.set
}

// Any returns the decoded value (nil for absent and for JSON null).
func (v Value) Any() any {
	return v.v
}

// Present reports whether v is set to something other than JSON null.
func (v Value) Present() bool {
	return v.set && v.v != nil
}

// AsString returns the value if it is a JSON string.
func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

// Truthy follows JavaScript truthiness, which is how transcript producers decide whether an optional field "is there": absent, null, false, 0 and "" are falsy;
// everything else (including empty objects and arrays) is truthy.
func (v Value) Truthy() bool {
	if !v.set {
		return false
	}
	switch x := v.v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// Text converts the value to display text. Strings are returned as-is, numbers and booleans in their JSON spelling, null/absent as "", and objects or arrays as
// compact JSON.
func (v Value) Text() string {
	switch x := v.v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprint(v.v)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return string(b)
	}
	return buf.String()
}

// Field returns the member key of an object value. It returns the absent Value if v is not an object or has no such member.
func (v Value) Field(key string) Value {
	m, ok := v.v.(map[string]any)
	if !ok {
		return Value{}
	}
	x, ok := m[key]
	if !ok {
		return Value{}
	}
	return ValueOf(x)
}

// Indent returns v as JSON indented with two spaces. Decoded values keep their original member order. An absent value indents as "null".
func (v Value) Indent() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprint(v.v)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return string(b)
	}
	return buf.String()
}

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}
	v.v = x
	v.raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	v.set = true
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if len(v.raw) > 0 {
		return v.raw, nil
	}
	return marshalNoEscape(v.v)
}

// marshalNoEscape marshals x without escaping <, > and &, so code shown to users reads the way it was written.
func marshalNoEscape(x any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
