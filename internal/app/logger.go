package app

import (
	"io"
	"log/slog"
)

// Log formats accepted by the logger factory.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds an isolated logger; the global slog default is left
// alone. Unknown levels fall back to info and unknown formats to text, and
// the fallback is reported through the new logger itself.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, levelOK := logLevels[levelStr]
	if !levelOK {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	formatOK := true
	switch formatStr {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(outW, handlerOpts)
	case LogFormatText, "":
		handler = slog.NewTextHandler(outW, handlerOpts)
	default:
		formatOK = false
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	logger := slog.New(handler)
	if !levelOK && levelStr != "" {
		logger.Warn("Unknown log level, using info.", "level", levelStr)
	}
	if !formatOK {
		logger.Warn("Unknown log format, using text.", "format", formatStr)
	}
	return logger
}
