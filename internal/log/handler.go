package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// mirrorErrors gates whether error records reaching the primary handler are
// also copied to the secondary (console) handler. It starts enabled; the
// explorer turns it off before entering the alternate screen so stderr
// writes cannot tear the UI.
var mirrorErrors atomic.Bool

func init() {
	mirrorErrors.Store(true)
}

// EnableErrorMirroring resumes copying error records to the secondary
// handler.
func EnableErrorMirroring() {
	mirrorErrors.Store(true)
}

// DisableErrorMirroring stops copying error records to the secondary
// handler. Interactive commands call this while they own the terminal.
func DisableErrorMirroring() {
	mirrorErrors.Store(false)
}

func errorMirroringEnabled() bool {
	return mirrorErrors.Load()
}

// NewDualHandler routes every record to primary (usually the log file) and
// mirrors error level records to secondary when mirroring is enabled.
func NewDualHandler(primary slog.Handler, secondary slog.Handler) slog.Handler {
	return &mirroringHandler{primary: primary, secondary: secondary}
}

type mirroringHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (h *mirroringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.primary != nil && h.primary.Enabled(ctx, level) {
		return true
	}
	return h.mirrors(level) && h.secondary.Enabled(ctx, level)
}

func (h *mirroringHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.primary != nil && h.primary.Enabled(ctx, record.Level) {
		if err := h.primary.Handle(ctx, record); err != nil {
			return err
		}
	}
	if h.mirrors(record.Level) && h.secondary.Enabled(ctx, record.Level) {
		return h.secondary.Handle(ctx, record.Clone())
	}
	return nil
}

func (h *mirroringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &mirroringHandler{}
	if h.primary != nil {
		next.primary = h.primary.WithAttrs(attrs)
	}
	if h.secondary != nil {
		next.secondary = h.secondary.WithAttrs(attrs)
	}
	return next
}

func (h *mirroringHandler) WithGroup(name string) slog.Handler {
	next := &mirroringHandler{}
	if h.primary != nil {
		next.primary = h.primary.WithGroup(name)
	}
	if h.secondary != nil {
		next.secondary = h.secondary.WithGroup(name)
	}
	return next
}

func (h *mirroringHandler) mirrors(level slog.Level) bool {
	return h.secondary != nil && level >= slog.LevelError && errorMirroringEnabled()
}
