package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ActionTimeFormat is the timestamp layout of action log lines.
const ActionTimeFormat = "2006-01-02 15:04:05"

// ActionLogHandler is a slog.Handler writing one "<timestamp> - <message>"
// line per record. Attributes and groups are not rendered.
type ActionLogHandler struct {
	mu *sync.Mutex
	w  io.Writer
}

// NewActionLogHandler creates a handler appending lines to w.
func NewActionLogHandler(w io.Writer) *ActionLogHandler {
	return &ActionLogHandler{mu: &sync.Mutex{}, w: w}
}

// Enabled reports whether the level is Info or above
func (h *ActionLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

// Handle writes the record as a single line
func (h *ActionLogHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s - %s\n", ts.Format(ActionTimeFormat), r.Message)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

// WithAttrs returns h; attributes are not rendered
func (h *ActionLogHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

// WithGroup returns h; groups are not rendered
func (h *ActionLogHandler) WithGroup(_ string) slog.Handler { return h }

// NewActionLog opens path in append mode and returns a logger writing action
// lines to it, plus the file to close on shutdown.
func NewActionLog(path string) (*slog.Logger, io.Closer, error) {
	file, err := openLogFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open action log: %w", err)
	}
	return slog.New(NewActionLogHandler(file)), file, nil
}

// DiscardActionLog returns an action logger that drops every line.
func DiscardActionLog() *slog.Logger {
	return slog.New(NewActionLogHandler(io.Discard))
}
