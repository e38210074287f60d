package logutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	slog.SetDefault(NewLogger(&buf, LevelTrace))
	assert.True(t, TraceEnabled())
	Trace("fixed point", "rule", "RE", "iteration", 2)
	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "rule=RE")
	assert.Contains(t, buf.String(), "source=logutil_test.go")

	buf.Reset()
	slog.SetDefault(NewLogger(&buf, slog.LevelInfo))
	assert.False(t, TraceEnabled())
	Trace("hidden")
	assert.Empty(t, buf.String())
}
