package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// LevelTrace sits below Debug and carries per-iteration detail from the
// parser and the automaton pipeline.
const LevelTrace slog.Level = slog.LevelDebug - 4

// NewLogger writes text records to w. Sources are shortened to the file name
// and LevelTrace prints as TRACE.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}))
}

func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok && l == LevelTrace {
			attr.Value = slog.StringValue("TRACE")
		}
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok {
			src.File = filepath.Base(src.File)
		}
	}
	return attr
}

// Trace logs at LevelTrace, attributing the record to its caller.
func Trace(msg string, args ...any) {
	logger := slog.Default()
	if !logger.Enabled(context.Background(), LevelTrace) {
		return
	}
	pc, _, _, _ := runtime.Caller(1)
	record := slog.NewRecord(time.Now(), LevelTrace, msg, pc)
	record.Add(args...)
	_ = logger.Handler().Handle(context.Background(), record)
}

// TraceEnabled lets hot loops skip building trace arguments.
func TraceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}
