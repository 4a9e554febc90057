package lifecycle

import (
	"context"
	"time"
)

// Handle is the lifecycle controller handed to each background worker.
// The owning Manager creates it and tracks the worker until Close is called.
type Handle struct {
	ctx context.Context
	// Close tells the Manager that the worker has finished shutting down.
	// Workers should defer it before entering their loop.
	Close func()
}

// Ctx returns the handle's context.
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done returns a channel that closes when the manager broadcasts shutdown,
// so workers can select on it.
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Err reports why the handle's context was cancelled once Done has fired.
func (h *Handle) Err() error {
	return h.ctx.Err()
}

// Sleep pauses for the given duration but wakes early with the context error
// if shutdown is signalled. Background loops should sleep through this rather
// than time.Sleep so they stay responsive to shutdown.
func (h *Handle) Sleep(duration time.Duration) error {
	timer := time.NewTimer(duration)

	select {
	case <-h.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return h.Err()
	case <-timer.C:
		return nil
	}
}
