package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentdeck/agentdeck/internal/content"
	"github.com/agentdeck/agentdeck/internal/displaytesting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeShapes(t *testing.T) {
	testCases := []struct {
		name       string
		format     Format
		input      string
		chatID     string
		playground bool
	}{
		{
			name:       "object",
			format:     FormatAuto,
			input:      `{"chat_id":"c1","playground":true,"items":[{"type":"text","text":"hi"},{"type":"code","language":"go","code":"x"}]}`,
			chatID:     "c1",
			playground: true,
		},
		{
			name:   "array",
			format: FormatJSON,
			input:  `[{"type":"text","text":"hi"},{"type":"code","language":"go","code":"x"}]`,
		},
		{
			name:   "json lines",
			format: FormatJSONL,
			input:  "{\"type\":\"text\",\"text\":\"hi\"}\n\n{\"type\":\"code\",\"language\":\"go\",\"code\":\"x\"}\n",
		},
		{
			name:   "json lines detected",
			format: FormatAuto,
			input:  "{\"type\":\"text\",\"text\":\"hi\"}\n{\"type\":\"code\",\"language\":\"go\",\"code\":\"x\"}",
		},
		{
			name:   "yaml",
			format: FormatYAML,
			input: displaytesting.Dedent(`
				chat_id: c2
				items:
				  - type: text
				    text: hi
				  - type: code
				    language: go
				    code: x
			`),
			chatID: "c2",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := Decode(strings.NewReader(tc.input), tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.chatID, tr.ChatID)
			assert.Equal(t, tc.playground, tr.Playground)
			require.Len(t, tr.Items, 2)
			assert.Equal(t, content.Text{Text: "hi"}, tr.Items[0].Body)
			assert.Equal(t, content.Code{Language: "go", Code: "x"}, tr.Items[1].Body)
		})
	}
}

func TestDecodeSingleItem(t *testing.T) {
	tr, err := Decode(strings.NewReader(`{"type":"text","text":"solo"}`), FormatAuto)
	require.NoError(t, err)
	require.Len(t, tr.Items, 1)
	assert.Equal(t, content.Text{Text: "solo"}, tr.Items[0].Body)
}

func TestDecodeEmpty(t *testing.T) {
	for _, f := range []Format{FormatAuto, FormatJSON, FormatJSONL, FormatYAML} {
		tr, err := Decode(strings.NewReader("  \n"), f)
		require.NoError(t, err, f)
		assert.Empty(t, tr.Items)
	}
}

func TestDecodeReportsItemIndex(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"items":[{"type":"text"},{"text":"no type"}]}`), FormatAuto)
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrMissingType)
	assert.Contains(t, err.Error(), "transcript: item 1:")

	_, err = Decode(strings.NewReader("{\"type\":\"text\"}\n{\"text\":\"x\"}\n"), FormatJSONL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1 (line 2)")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(`"just a string"`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`[1`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`[] []`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`[]`), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeYAMLAliases(t *testing.T) {
	var fanOut strings.Builder
	fanOut.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < 9; i++ {
		fmt.Fprintf(&fanOut, "l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				fanOut.WriteString(", ")
			}
			fmt.Fprintf(&fanOut, "*l%d", i-1)
		}
		fanOut.WriteString("]\n")
	}
	fanOut.WriteString("items: [{type: text, text: hi}]\n")

	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "shared anchor", input: "t: &t {type: text, text: hi}\nitems: [*t, *t]\n"},
		{name: "self reference", input: "items: &x [*x]\n", wantErr: "recursive alias"},
		{name: "mapping self reference", input: "items: [&m {type: text, text: hi, self: *m}]\n", wantErr: "recursive alias"},
		{name: "fan out", input: fanOut.String(), wantErr: "document expands past"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := Decode(strings.NewReader(tc.input), FormatYAML)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Len(t, tr.Items, 2)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "transcript: decode yaml")
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestYAMLKeepsKeyOrder(t *testing.T) {
	src := displaytesting.Dedent(`
		items:
		  - type: tool_use
		    name: search
		    tool_input:
		      zeta: 1
		      alpha: "<b>"
	`)
	tr, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	require.Len(t, tr.Items, 1)
	tool, ok := tr.Items[0].Body.(content.ToolUse)
	require.True(t, ok)
	assert.Equal(t, "{\n  \"zeta\": 1,\n  \"alpha\": \"<b>\"\n}", tool.Input.Indent())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.yml")
	require.NoError(t, os.WriteFile(path, []byte("- type: text\n  text: hi\n"), 0o644))

	tr, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tr.Items, 1)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"type":"text"},{}]`), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	assert.Contains(t, err.Error(), "item 1")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "auto": FormatAuto, "JSON": FormatJSON, "jsonl": FormatJSONL, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, FormatYAML, FormatForPath("a/b.YAML"))
	assert.Equal(t, FormatJSONL, FormatForPath("x.ndjson"))
	assert.Equal(t, FormatAuto, FormatForPath("x.txt"))
}

func TestEncodeRoundTrip(t *testing.T) {
	in := `{"chat_id":"c","items":[{"type":"text","text":"<hi>"}]}`
	tr, err := Decode(strings.NewReader(in), FormatAuto)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, Encode(&b, tr))
	assert.JSONEq(t, in, b.String())
	assert.Contains(t, b.String(), "<hi>")
}
