package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentdeck/agentdeck/internal/display"
	"github.com/agentdeck/agentdeck/internal/transcript"
)

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/render", s.handleRender)
}

var contentTypes = map[string]string{
	display.FormatJSON:    "application/json; charset=utf-8",
	display.FormatHTML:    "text/html; charset=utf-8",
	display.FormatText:    "text/plain; charset=utf-8",
	display.FormatOutline: "text/plain; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender renders the transcript in the request body.
//
// Query parameters: format (json, html, text, outline; default json), width (text wrapping), chat_id (overrides the transcript's own), and input
// (auto, json, jsonl, yaml; default auto).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = display.FormatJSON
	}
	contentType, ok := contentTypes[format]
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "unknown format "+strconv.Quote(format))
		return
	}

	width := 0
	if v := q.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "width must be a non-negative integer")
			return
		}
		width = n
	}

	inputFormat, err := transcript.ParseFormat(q.Get("input"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	t, err := transcript.Decode(body, inputFormat)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		s.logger.Debug("transcript decode failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	chatID := q.Get("chat_id")
	if chatID == "" {
		chatID = t.ChatID
	}
	if chatID == "" {
		chatID = uuid.NewString()
	}

	tree := s.renderer.RenderAll(t.Items, chatID, t.Playground)

	var buf bytes.Buffer
	if err := display.Write(&buf, tree, format, display.WriteOptions{Text: display.TextOptions{Width: width}}); err != nil {
		s.logger.Error("render write failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "failed to write rendering")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Chat-Id", chatID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes the error envelope {"error":{"code":...,"message":...}}.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
