package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/contentdisplay"
)

const sampleTranscript = `{
	"chat_id": "chat-1",
	"items": [
		{"type": "text", "text": "Hello **world**", "header": {"title": "Assistant"}, "duration": 250},
		{"type": "tool_use", "name": "write_todos", "output": "✅ ship it"}
	]
}`

func newTestServer(t *testing.T, cfg config.ServerConfig) http.Handler {
	t.Helper()
	return New(cfg, contentdisplay.New(contentdisplay.Options{}), nil).Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var env map[string]errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env["error"]
}

func TestHealth(t *testing.T) {
	rec := do(newTestServer(t, config.ServerConfig{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRender_JSON(t *testing.T) {
	rec := do(newTestServer(t, config.ServerConfig{}), http.MethodPost, "/v1/render", sampleTranscript)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "chat-1", rec.Header().Get("X-Chat-Id"))

	var tree struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind string `json:"kind"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	assert.Equal(t, "block", tree.Kind)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "item", tree.Children[0].Kind)
	assert.Equal(t, "item", tree.Children[1].Kind)
	assert.Contains(t, rec.Body.String(), `"chat_id": "chat-1"`)
}

func TestRender_Formats(t *testing.T) {
	h := newTestServer(t, config.ServerConfig{})
	tests := []struct {
		format      string
		contentType string
		want        string
	}{
		{format: "html", contentType: "text/html", want: "<strong>world</strong>"},
		{format: "text", contentType: "text/plain", want: "Assistant (250ms)"},
		{format: "outline", contentType: "text/plain", want: `check_item "✅ ship it"`},
	}
	for _, tt := range tests {
		rec := do(h, http.MethodPost, "/v1/render?format="+tt.format, sampleTranscript)
		require.Equal(t, http.StatusOK, rec.Code, tt.format)
		assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType, tt.format)
		assert.Contains(t, rec.Body.String(), tt.want, tt.format)
	}
}

func TestRender_GeneratesChatID(t *testing.T) {
	rec := do(newTestServer(t, config.ServerConfig{}), http.MethodPost, "/v1/render", `[{"type": "text", "text": "hi", "duration": 5}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get("X-Chat-Id"), 36)

	rec = do(newTestServer(t, config.ServerConfig{}), http.MethodPost, "/v1/render?chat_id=given", `[{"type": "text", "text": "hi"}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "given", rec.Header().Get("X-Chat-Id"))
}

func TestRender_ChatIDPrecedence(t *testing.T) {
	h := newTestServer(t, config.ServerConfig{})
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "transcript chat id", target: "/v1/render", want: "chat-1"},
		{name: "query overrides transcript", target: "/v1/render?chat_id=given", want: "given"},
		{name: "empty query keeps transcript", target: "/v1/render?chat_id=", want: "chat-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, tt.target, sampleTranscript)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, rec.Header().Get("X-Chat-Id"))
		})
	}
}

func TestRender_BadRequests(t *testing.T) {
	h := newTestServer(t, config.ServerConfig{})
	tests := []struct {
		name   string
		target string
		body   string
	}{
		{name: "garbage body", target: "/v1/render", body: "not json at all"},
		{name: "bad item", target: "/v1/render", body: `[{"text": "no type"}]`},
		{name: "unknown format", target: "/v1/render?format=pdf", body: sampleTranscript},
		{name: "bad width", target: "/v1/render?format=text&width=-3", body: sampleTranscript},
		{name: "unknown input", target: "/v1/render?input=toml", body: sampleTranscript},
		{name: "recursive yaml alias", target: "/v1/render?input=yaml", body: "items: &x [*x]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, tt.target, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			e := decodeError(t, rec)
			assert.Equal(t, "bad_request", e.Code)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestRender_YAMLInput(t *testing.T) {
	body := "chat_id: y1\nitems:\n  - type: code\n    code: x := 1\n    language: go\n"
	rec := do(newTestServer(t, config.ServerConfig{}), http.MethodPost, "/v1/render?input=yaml&format=outline", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `code_block lang=go "x := 1"`)
}

func TestRender_BodyTooLarge(t *testing.T) {
	h := newTestServer(t, config.ServerConfig{MaxBodyBytes: 16})
	rec := do(h, http.MethodPost, "/v1/render", sampleTranscript)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "too_large", decodeError(t, rec).Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	h := newTestServer(t, config.ServerConfig{})

	rec := do(h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)

	rec = do(h, http.MethodGet, "/v1/render", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", decodeError(t, rec).Code)
}

func TestShutdownBeforeStart(t *testing.T) {
	s := New(config.ServerConfig{Addr: "127.0.0.1:0"}, contentdisplay.New(contentdisplay.Options{}), nil)
	require.NoError(t, s.Shutdown(context.Background()))
	assert.ErrorIs(t, s.Start(), http.ErrServerClosed)
}
