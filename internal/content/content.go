// Package content defines the items that make up an agent chat transcript: text, code, json, error, tool_use and media, each optionally carrying a header and a
// duration.
//
// An Item is a tagged union. On the wire, the "type" member selects the variant and the remaining members are the variant's fields; in Go, Item.Body holds one of
// Text, Code, JSON, Error, ToolUse, Media, or Unknown.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type is the wire discriminator of an Item.
type Type string

const (
	TypeText    Type = "text"
	TypeCode    Type = "code"
	TypeJSON    Type = "json"
	TypeError   Type = "error"
	TypeToolUse Type = "tool_use"
	TypeMedia   Type = "media"
)

// ErrMissingType is returned when decoding an item without a "type" member.
var ErrMissingType = errors.New("content: missing type")

// Header is shown above an item's body, whatever the item's type.
type Header struct {
	Icon  string `json:"icon,omitempty"`
	Title string `json:"title,omitempty"`
}

// Item is one renderable unit of transcript output.
type Item struct {
	Header   *Header
	Duration *float64 // elapsed milliseconds
	Body     Body
}

// Body is the variant part of an Item. The set of implementations is closed.
type Body interface {
	Type() Type
	body()
}

type Text struct {
	Text string
}

type Code struct {
	Language string
	Code     string
}

type JSON struct {
	Data Value
}

type Error struct {
	Reason    string
	Solution  string
	Traceback string
}

// ToolUse is the invocation and result of one agent tool call.
//
// Output is conventionally a string, and some tools encode JSON inside that string. Error is whatever the producer attached (usually a string).
type ToolUse struct {
	Name   ToolName
	Input  Value // object of tool arguments
	Output Value
	Error  Value
}

type Media struct {
	URLs    []string
	Caption string
}

// Unknown is a body whose type this package does not know. It renders as header/duration only.
type Unknown struct {
	Kind Type
}

func (Text) Type() Type      { return TypeText }
func (Code) Type() Type      { return TypeCode }
func (JSON) Type() Type      { return TypeJSON }
func (Error) Type() Type     { return TypeError }
func (ToolUse) Type() Type   { return TypeToolUse }
func (Media) Type() Type     { return TypeMedia }
func (u Unknown) Type() Type { return u.Kind }

func (Text) body()    {}
func (Code) body()    {}
func (JSON) body()    {}
func (Error) body()   {}
func (ToolUse) body() {}
func (Media) body()   {}
func (Unknown) body() {}

// Arg returns the tool argument named key, or the absent Value.
func (t ToolUse) Arg(key string) Value {
	return t.Input.Field(key)
}

// wireItem is the flat JSON shape shared by all variants.
type wireItem struct {
	Type     Type     `json:"type"`
	Header   *Header  `json:"header,omitempty"`
	Duration *float64 `json:"duration,omitempty"`

	Text string `json:"text,omitempty"`

	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`

	Data Value `json:"data,omitzero"`

	Reason    string `json:"reason,omitempty"`
	Solution  string `json:"solution,omitempty"`
	Traceback string `json:"traceback,omitempty"`

	Name      string `json:"name,omitempty"`
	ToolInput Value  `json:"tool_input,omitzero"`
	Output    Value  `json:"output,omitzero"`
	Error     Value  `json:"error,omitzero"`

	URLs    []string `json:"urls,omitempty"`
	Caption string   `json:"caption,omitempty"`
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var w wireItem
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("content: decode item: %w", err)
	}
	if w.Type == "" {
		return ErrMissingType
	}

	it.Header = w.Header
	it.Duration = w.Duration

	switch w.Type {
	case TypeText:
		it.Body = Text{Text: w.Text}
	case TypeCode:
		it.Body = Code{Language: w.Language, Code: w.Code}
	case TypeJSON:
		it.Body = JSON{Data: w.Data}
	case TypeError:
		it.Body = Error{Reason: w.Reason, Solution: w.Solution, Traceback: w.Traceback}
	case TypeToolUse:
		it.Body = ToolUse{Name: ToolName(w.Name), Input: w.ToolInput, Output: w.Output, Error: w.Error}
	case TypeMedia:
		it.Body = Media{URLs: w.URLs, Caption: w.Caption}
	default:
		it.Body = Unknown{Kind: w.Type}
	}
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	w := wireItem{Header: it.Header, Duration: it.Duration}
	switch body := it.Body.(type) {
	case Text:
		w.Type = TypeText
		w.Text = body.Text
	case Code:
		w.Type = TypeCode
		w.Language = body.Language
		w.Code = body.Code
	case JSON:
		w.Type = TypeJSON
		w.Data = body.Data
	case Error:
		w.Type = TypeError
		w.Reason = body.Reason
		w.Solution = body.Solution
		w.Traceback = body.Traceback
	case ToolUse:
		w.Type = TypeToolUse
		w.Name = string(body.Name)
		w.ToolInput = body.Input
		w.Output = body.Output
		w.Error = body.Error
	case Media:
		w.Type = TypeMedia
		w.URLs = body.URLs
		w.Caption = body.Caption
	case Unknown:
		w.Type = body.Kind
	case nil:
		return nil, ErrMissingType
	default:
		return nil, fmt.Errorf("content: unsupported body %T", body)
	}
	return marshalNoEscape(w)
}
