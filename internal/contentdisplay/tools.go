package contentdisplay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/agentdeck/agentdeck/internal/content"
	"github.com/agentdeck/agentdeck/internal/display"
	"github.com/agentdeck/agentdeck/internal/richtext"
)

// toolUse dispatches on the tool name. Handlers for write_todos, write_context/read_context and summarize need a truthy output and otherwise fall through to the
// generic view; delegate_task, load_skill and read_skill_file always use their own view.
func (r *Renderer) toolUse(t content.ToolUse) *display.Node {
	switch t.Name {
	case content.ToolWriteTodos:
		if n, ok := todoChecklist(t); ok {
			return n
		}
	case content.ToolWriteContext, content.ToolReadContext:
		if t.Output.Truthy() {
			return r.contextTool(t)
		}
	case content.ToolDelegateTask:
		return r.delegateTask(t)
	case content.ToolLoadSkill:
		return r.loadSkill(t)
	case content.ToolReadSkillFile:
		return r.readSkillFile(t)
	case content.ToolSummarize:
		if t.Output.Truthy() {
			return r.summarize(t)
		}
	default:
		return r.genericTool(t)
	}
	return r.genericTool(t)
}

// todoGlyphs mark a line of write_todos output as a todo: pending, in progress, done.
var todoGlyphs = []string{"⬜", "🔄", "✅"}

func isTodoLine(line string) bool {
	for _, g := range todoGlyphs {
		if strings.Contains(line, g) {
			return true
		}
	}
	return false
}

// todoChecklist renders the todo lines of a write_todos output in order. ok is false if the output is falsy or has no todo lines.
func todoChecklist(t content.ToolUse) (*display.Node, bool) {
	if !t.Output.Truthy() {
		return nil, false
	}
	text, ok := todoText(t.Output.Any())
	if !ok {
		return nil, false
	}
	list := display.Checklist()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isTodoLine(line) {
			continue
		}
		list.Append(display.CheckItem(line))
	}
	if len(list.Children) == 0 {
		return nil, false
	}
	return list, true
}

// todoText is the checklist source text of a write_todos output. Arrays join their elements with commas, recursively, and null elements are empty. Any
// other non-string output has no checklist.
func todoText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e == nil {
				continue
			}
			s, ok := todoText(e)
			if !ok {
				s = content.ValueOf(e).Text()
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

func (r *Renderer) contextTool(t content.ToolUse) *display.Node {
	key := "unknown"
	if k := t.Arg("key"); k.Truthy() {
		key = k.Text()
	}
	row := display.Row("Key", display.Strong(display.Text(key))).WithTone(display.ToneMuted)
	if t.Name == content.ToolWriteContext {
		if v := t.Arg("value"); v.Truthy() {
			row.Append(display.Text(" · " + chars(charCount(v.Text()))))
		}
	}
	return display.Block(
		row,
		display.Details("View value", r.rich(t.Output.Text(), richtext.Options{})...),
	)
}

func (r *Renderer) delegateTask(t content.ToolUse) *display.Node {
	n := display.Block()
	if task := t.Arg("task"); task.Truthy() {
		n.Append(display.Row("Task", display.Text(task.Text())))
	}
	if ctx := t.Arg("context"); ctx.Truthy() {
		n.Append(display.Details("Context provided", display.Paragraph(display.Text(ctx.Text())).WithTone(display.ToneMuted)))
	}
	if t.Output.Truthy() {
		n.Append(display.Panel("Sub-Agent Result", r.rich(t.Output.Text(), richtext.Options{})...))
	}
	if t.Error.Truthy() {
		n.Append(display.Row("Error", display.Text(t.Error.Text())).WithTone(display.ToneError))
	}
	return n
}

// skillPayload is the JSON a load_skill tool returns as its output string.
type skillPayload struct {
	SkillName      string   `json:"skill_name"`
	Description    string   `json:"description"`
	Instructions   string   `json:"instructions"`
	AvailableFiles []string `json:"available_files"`
	Error          string   `json:"error"`
}

// skillFilePayload is the JSON a read_skill_file tool returns as its output string.
type skillFilePayload struct {
	SkillName string `json:"skill_name"`
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	Error     string `json:"error"`
}

var errNoPayload = errors.New("contentdisplay: output is not a non-empty string")

// decodePayload decodes the JSON encoded in a string output. Callers treat any error as "no payload".
func decodePayload[T any](output content.Value) (*T, error) {
	s, ok := output.AsString()
	if !ok || s == "" {
		return nil, errNoPayload
	}
	var p T
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("contentdisplay: decode output: %w", err)
	}
	return &p, nil
}

func (r *Renderer) loadSkill(t content.ToolUse) *display.Node {
	n := display.Block()
	if name := t.Arg("skill_name"); name.Truthy() {
		n.Append(display.Paragraph(display.Badge(name.Text())))
	}

	skill, err := decodePayload[skillPayload](t.Output)
	if err != nil {
		return n
	}
	if skill.Error != "" {
		n.Append(display.Paragraph(display.Text(skill.Error)).WithTone(display.ToneError))
	}
	if skill.Description != "" {
		n.Append(display.Paragraph(display.Text(skill.Description)).WithTone(display.ToneMuted))
	}
	if skill.Instructions != "" {
		summary := fmt.Sprintf("View instructions (%s)", chars(charCount(skill.Instructions)))
		n.Append(display.Details(summary, r.rich(skill.Instructions, richtext.Options{})...))
	}
	if len(skill.AvailableFiles) > 0 {
		files := "Supporting files: " + strings.Join(skill.AvailableFiles, ", ")
		n.Append(display.Paragraph(display.Text(files)).WithTone(display.ToneMuted))
	}
	return n
}

func (r *Renderer) readSkillFile(t content.ToolUse) *display.Node {
	crumb := display.Breadcrumb()
	if name := t.Arg("skill_name"); name.Truthy() {
		crumb.Append(display.Badge(name.Text()))
	}
	if filename := t.Arg("filename"); filename.Truthy() {
		crumb.Append(display.Text("/ " + filename.Text()).WithTone(display.ToneMuted))
	}
	n := display.Block(crumb)

	file, err := decodePayload[skillFilePayload](t.Output)
	if err != nil {
		return n
	}
	if file.Error != "" {
		n.Append(display.Paragraph(display.Text(file.Error)).WithTone(display.ToneError))
	}
	if file.Content != "" {
		summary := fmt.Sprintf("View content (%s)", chars(charCount(file.Content)))
		n.Append(display.Details(summary, r.rich(file.Content, richtext.Options{})...))
	}
	return n
}

func (r *Renderer) summarize(t content.ToolUse) *display.Node {
	output := t.Output.Text()
	inLen := 0
	if text := t.Arg("text"); text.Truthy() {
		inLen = charCount(text.Text())
	}
	outLen := charCount(output)

	n := display.Block()
	if inLen > 0 {
		stats := chars(inLen) + " → " + chars(outLen)
		if reduction := reductionPercent(inLen, outLen); reduction > 0 {
			stats += fmt.Sprintf(" (%d%% reduction)", reduction)
		}
		n.Append(display.Paragraph(display.Text(stats)).WithTone(display.ToneMuted))
	}
	n.Append(display.Details("View summary", r.rich(output, richtext.Options{})...))
	return n
}

// genericTool shows the tool input as JSON, then the output (markdown if it is a string, JSON otherwise), then any error.
func (r *Renderer) genericTool(t content.ToolUse) *display.Node {
	input := "{}"
	if !t.Input.IsZero() {
		input = t.Input.Indent()
	}
	n := display.Block(
		display.Label("Input"),
		display.CodeBlock("json", input),
	)

	if t.Output.Truthy() {
		n.Append(display.Label("Output"))
		if s, ok := t.Output.AsString(); ok {
			n.Append(r.rich(s, richtext.Options{})...)
		} else {
			n.Append(display.CodeBlock("json", t.Output.Indent()))
		}
	}

	if t.Error.Truthy() {
		n.Append(display.ErrorBlock(
			display.Label("Error"),
			display.CodeBlock("json", t.Error.Indent()),
		))
	}
	return n
}
