package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemDecodeVariants(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		check func(t *testing.T, it Item)
	}{
		{
			name:  "text",
			input: `{"type":"text","text":"hello"}`,
			check: func(t *testing.T, it Item) {
				assert.Equal(t, Text{Text: "hello"}, it.Body)
			},
		},
		{
			name:  "code",
			input: `{"type":"code","language":"go","code":"package main"}`,
			check: func(t *testing.T, it Item) {
				assert.Equal(t, Code{Language: "go", Code: "package main"}, it.Body)
			},
		},
		{
			name:  "error",
			input: `{"type":"error","reason":"boom","traceback":"line 1"}`,
			check: func(t *testing.T, it Item) {
				assert.Equal(t, Error{Reason: "boom", Traceback: "line 1"}, it.Body)
			},
		},
		{
			name:  "media",
			input: `{"type":"media","urls":["a.png","b.png"],"caption":"pics"}`,
			check: func(t *testing.T, it Item) {
				assert.Equal(t, Media{URLs: []string{"a.png", "b.png"}, Caption: "pics"}, it.Body)
			},
		},
		{
			name:  "tool use",
			input: `{"type":"tool_use","name":"write_context","tool_input":{"key":"k","value":"v"},"output":"saved","error":null}`,
			check: func(t *testing.T, it Item) {
				tool, ok := it.Body.(ToolUse)
				require.True(t, ok)
				assert.Equal(t, ToolWriteContext, tool.Name)
				key, ok := tool.Arg("key").AsString()
				assert.True(t, ok)
				assert.Equal(t, "k", key)
				assert.Equal(t, "saved", tool.Output.Text())
				assert.False(t, tool.Error.IsZero())
				assert.False(t, tool.Error.Present())
				assert.False(t, tool.Error.Truthy())
			},
		},
		{
			name:  "header and duration",
			input: `{"type":"code","header":{"icon":"Bot","title":"**Step**"},"duration":1250}`,
			check: func(t *testing.T, it Item) {
				require.NotNil(t, it.Header)
				assert.Equal(t, "Bot", it.Header.Icon)
				assert.Equal(t, "**Step**", it.Header.Title)
				require.NotNil(t, it.Duration)
				assert.Equal(t, 1250.0, *it.Duration)
			},
		},
		{
			name:  "unknown type",
			input: `{"type":"audio","src":"x.mp3"}`,
			check: func(t *testing.T, it Item) {
				assert.Equal(t, Unknown{Kind: "audio"}, it.Body)
				assert.Equal(t, Type("audio"), it.Body.Type())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var it Item
			require.NoError(t, json.Unmarshal([]byte(tc.input), &it))
			tc.check(t, it)
		})
	}
}

func TestItemDecodeMissingType(t *testing.T) {
	var it Item
	err := json.Unmarshal([]byte(`{"text":"hi"}`), &it)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingType)
}

func TestItemRoundTrip(t *testing.T) {
	inputs := []string{
		`{"type":"text","text":"hi","duration":12.5}`,
		`{"type":"json","data":{"z":1,"a":[true,null]}}`,
		`{"type":"tool_use","header":{"title":"Tool"},"name":"load_skill","tool_input":{"skill_name":"pdf"},"output":"{\"description\":\"d\"}"}`,
		`{"type":"media","urls":["u"]}`,
	}
	for _, input := range inputs {
		var first Item
		require.NoError(t, json.Unmarshal([]byte(input), &first))

		encoded, err := json.Marshal(first)
		require.NoError(t, err)
		assert.JSONEq(t, input, string(encoded))

		var second Item
		require.NoError(t, json.Unmarshal(encoded, &second))
		again, err := json.Marshal(second)
		require.NoError(t, err)
		assert.Equal(t, string(encoded), string(again))
	}
}

func TestMarshalNilBody(t *testing.T) {
	_, err := json.Marshal(Item{})
	assert.ErrorIs(t, err, ErrMissingType)
}
