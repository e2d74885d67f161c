// Package logging builds the zap loggers used by the agentdeck commands.
//
// The CLI logs human-readable console lines to stderr; the server logs JSON. If the AGENTDECK_LOG_FILE environment variable (or Config.File) names a file,
// every entry is also appended to that file as JSON.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogFile names a file that log entries are appended to, in addition to the primary sink.
const EnvLogFile = "AGENTDECK_LOG_FILE"

// Config configures New.
type Config struct {
	Level   string // debug, info, warn, error. Empty means info.
	Verbose bool   // forces debug level
	JSON    bool   // JSON encoding on the primary sink instead of console lines
	File    string // append sink; if empty, $AGENTDECK_LOG_FILE is used
}

// New returns a logger writing to w and a cleanup func that flushes it and closes any file sink. The cleanup func is never nil.
func New(cfg Config, w io.Writer) (*zap.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, func() {}, err
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	enc := encoderConfig()
	var primary zapcore.Encoder
	if cfg.JSON {
		primary = zapcore.NewJSONEncoder(enc)
	} else {
		console := enc
		console.EncodeLevel = zapcore.CapitalLevelEncoder
		console.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		primary = zapcore.NewConsoleEncoder(console)
	}
	cores := []zapcore.Core{zapcore.NewCore(primary, zapcore.Lock(zapcore.AddSync(w)), level)}

	var file *os.File
	path := cfg.File
	if path == "" {
		path = os.Getenv(EnvLogFile)
	}
	if path != "" {
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, func() {}, fmt.Errorf("logging: open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(file), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	cleanup := func() {
		_ = logger.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return logger, cleanup, nil
}

// ParseLevel parses a level name. "warning" is accepted for warn.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder
	return enc
}
