package reactivity

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the logger used for track and trigger diagnostics, which are
// written at Debug level. A nil logger discards them.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	pkgLogger.Store(l)
}

// debugEnabled reports whether debug logging is on, so callers can skip
// building attributes.
func debugEnabled() (*slog.Logger, bool) {
	l := pkgLogger.Load()
	return l, l.Enabled(context.Background(), slog.LevelDebug)
}
