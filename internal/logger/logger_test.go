package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugIsGated(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	l = New(&buf, true, false)
	l.Debugf("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG]")
	assert.Contains(t, buf.String(), "shown 2")
}

func TestLinesCarryLevelAndRunID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)

	l.Infof("found %d results", 3)
	l.Warnf("careful")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "[INFO] ["+l.handler.runID+"] found 3 results", lines[0])
	assert.Equal(t, "[WARN] ["+l.handler.runID+"] careful", lines[1])
	assert.Len(t, l.handler.runID, 8)
}

func TestHandlerRendersAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelInfo, false)
	log := slog.New(h).With("note", "daily notes.md").WithGroup("search")

	log.Info("done", "results", 2, slog.Group("period", "from", "2024-01-01"))
	log.Debug("dropped")
	log.Error("failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t,
		"[INFO] ["+h.runID+"] done note=\"daily notes.md\" search.results=2 search.period.from=2024-01-01",
		lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "[ERROR] ["+h.runID+"] failed"))
}

func TestBlockWritesBodyVerbatim(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)

	l.Block("## urgent (1 results)\n- line\n")
	l.Block("   ")
	assert.Equal(t, "## urgent (1 results)\n- line\n", buf.String())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Infof("nothing")
		l.Debugf("nothing")
		l.Block("body")
	})
}
