package scan

import (
	"context"
	"sync/atomic"
)

// Token is a cancellation request flag shared between whoever wants a scan
// to stop and the scan itself. The zero value is not cancelled.
type Token struct {
	requested atomic.Bool
}

// Cancel asks the scan to stop at its next check.
func (t *Token) Cancel() {
	t.requested.Store(true)
}

// Requested reports whether Cancel has been called. It is the predicate
// passed to Scan.
func (t *Token) Requested() bool {
	return t.requested.Load()
}

// Reset clears a previous request so the token can be reused.
func (t *Token) Reset() {
	t.requested.Store(false)
}

// WatchContext cancels tok once ctx is done. The returned stop function
// detaches the watcher; it reports false if tok was already cancelled
// through ctx.
func WatchContext(ctx context.Context, tok *Token) (stop func() bool) {
	return context.AfterFunc(ctx, tok.Cancel)
}
