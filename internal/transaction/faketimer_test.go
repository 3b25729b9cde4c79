package transaction

import "time"

// fakeTimer lets tests fire the transaction timeout deterministically
// instead of sleeping past the real 200ms default.
type fakeTimer struct {
	fn      func()
	armed   bool
	stopped int
}

func (f *fakeTimer) Start(d time.Duration, fn func()) {
	f.fn = fn
	f.armed = true
}

func (f *fakeTimer) Stop() {
	if f.armed {
		f.armed = false
		f.stopped++
	}
}

func (f *fakeTimer) Fire() {
	if f.armed {
		f.armed = false
		f.fn()
	}
}
