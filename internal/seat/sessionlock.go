package seat

import "github.com/wsmwm/wsm/internal/toolkit"

// LockClient is the session-lock client holding (or having held) the lock
// (spec §4.4.4). Abandoned tracks a client that disconnected without
// calling unlock; a new client may then replace it (SPEC_FULL.md
// supplement: abandon/replace detail from
// original_source/desktop/wsm_session_lock.c).
type LockClient struct {
	Background toolkit.SceneTree
	LockSurface toolkit.SceneNode
	Abandoned   bool
}

// Manager coordinates session lock across every seat sharing one arena: a
// single lock is process-wide, but each Seat independently saves/restores
// its own pre-lock focus.
type Manager struct {
	seats  []*Seat
	client *LockClient
}

// NewManager tracks the seats whose focus must be cleared/restored around
// a lock.
func NewManager(seats ...*Seat) *Manager {
	return &Manager{seats: seats}
}

// Lock engages the session lock for client, marking every seat locked and
// saving each seat's prior head for restoration on unlock. It does not
// change any seat's focus stack and sends no keyboard leave to the focused
// view.
//
// Locking while a client already holds the lock only succeeds if that
// client is abandoned (spec §4.4.4 "a new lock client may replace an
// abandoned lock"); otherwise it is refused.
func (m *Manager) Lock(client *LockClient) bool {
	if m.client != nil && !m.client.Abandoned {
		return false
	}
	m.client = client
	for _, s := range m.seats {
		s.preLockFocus = s.Head()
		s.locked = true
		s.lockClient = client
	}
	return true
}

// Abandon marks the current lock client abandoned (its connection dropped
// without an unlock request). Only the Abandoned flag changes; the
// client's Background tree is not touched here. The lock stays engaged
// until a replacement client locks or an explicit Unlock.
func (m *Manager) Abandon() {
	if m.client != nil {
		m.client.Abandoned = true
	}
}

// Unlock disengages the session lock and restores every seat's pre-lock
// focus.
func (m *Manager) Unlock() {
	m.client = nil
	for _, s := range m.seats {
		s.locked = false
		s.lockClient = nil
		if s.preLockFocus != 0 {
			s.SetFocus(s.preLockFocus)
		}
	}
}

// Locked reports whether a lock is currently engaged (abandoned or not).
func (m *Manager) Locked() bool { return m.client != nil }

// Abandoned reports whether the current lock client (if any) has
// disconnected without unlocking.
func (m *Manager) Abandoned() bool { return m.client != nil && m.client.Abandoned }

// FocusLockSurface records surface as the lock client's lock surface. It
// sends no keyboard enter, and SetFocus does not consult the lock state.
func (s *Seat) FocusLockSurface(surface toolkit.SceneNode) {
	if s.lockClient != nil {
		s.lockClient.LockSurface = surface
	}
}

// Locked reports whether this seat currently has its focus suppressed by
// a session lock.
func (s *Seat) Locked() bool { return s.locked }
