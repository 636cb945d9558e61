package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

var (
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
)

func levelTag(level slog.Level, styled bool) string {
	tag := "[" + level.String() + "]"
	if !styled {
		return tag
	}
	switch {
	case level < slog.LevelInfo:
		return debugStyle.Render(tag)
	case level < slog.LevelWarn:
		return infoStyle.Render(tag)
	case level < slog.LevelError:
		return warnStyle.Render(tag)
	default:
		return errorStyle.Render(tag)
	}
}

// Handler is an slog.Handler that writes one line per record:
//
//	[LEVEL] [runid] message key=value ...
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	styled bool
	runID  string
	attrs  string
	group  string
}

// NewHandler returns a handler writing records at or above level to w. Level
// tags are colourised only when styled is set.
func NewHandler(w io.Writer, level slog.Leveler, styled bool) *Handler {
	if w == nil {
		w = os.Stderr
	}
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{
		mu:     &sync.Mutex{},
		w:      w,
		level:  level,
		styled: styled,
		runID:  uuid.NewString()[:8],
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(levelTag(r.Level, h.styled))
	b.WriteString(" [")
	b.WriteString(h.runID)
	b.WriteString("] ")
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')
	return h.write(b.String())
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}
	clone := *h
	clone.attrs = b.String()
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

func (h *Handler) write(s string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, s)
	return err
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, prefix, ga)
		}
		return
	}
	value := a.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(value)
}

// Logger is the diagnostic channel for one invocation. Every line carries a
// short run id so interleaved runs can be told apart. A nil *Logger drops
// everything.
type Logger struct {
	log     *slog.Logger
	handler *Handler
}

// New returns a logger writing to w. Debug lines are dropped unless debug is
// set.
func New(w io.Writer, debug, styled bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := NewHandler(w, level, styled)
	return &Logger{log: slog.New(h), handler: h}
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(slog.LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(slog.LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(slog.LevelWarn, format, args...) }

// Block writes a multi-line body at info level without a tag on each line.
func (l *Logger) Block(body string) {
	if l == nil || strings.TrimSpace(body) == "" {
		return
	}
	if !l.handler.Enabled(context.Background(), slog.LevelInfo) {
		return
	}
	_ = l.handler.write(strings.TrimRight(body, "\n") + "\n")
}

func (l *Logger) logf(level slog.Level, format string, args ...any) {
	if l == nil {
		return
	}
	ctx := context.Background()
	if !l.log.Enabled(ctx, level) {
		return
	}
	l.log.Log(ctx, level, fmt.Sprintf(format, args...))
}
