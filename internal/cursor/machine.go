package cursor

import (
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/view"
	"github.com/wsmwm/wsm/internal/wsmlog"
)

// Host is the subset of the server the cursor ops need: marking a node
// dirty and running the transaction's client-side commit. Kept minimal so
// this package never imports the seat/server packages (avoids an import
// cycle, since seat composes a Machine).
type Host interface {
	MarkDirty(id node.ID)
	CommitDirtyClient()
}

// Machine is the seat-op state machine of spec §4.5: exactly one Op is
// active at a time, plus the set of pressed buttons tracked across
// transitions (kept as a map, so no press order is recorded).
type Machine struct {
	Host Host

	op      Op
	pressed map[Button]bool

	X, Y float64

	// simulating_pointer_from_touch (spec §4.5, touch-to-pointer
	// simulation): the touch id currently driving pointer semantics. It is
	// meaningful only while hasSimulatedTouch is true.
	simulatingFromTouch TouchID
	hasSimulatedTouch   bool
	simulatingBackend   toolkit.ViewBackend

	// constraint is the pointer confinement/lock region currently attached
	// to the focused surface, if any (spec §4.5 pointer constraints).
	constraint *Constraint
}

// NewMachine starts in the Default op.
func NewMachine(host Host) *Machine {
	m := &Machine{Host: host, pressed: make(map[Button]bool)}
	m.op = &DefaultOp{m: m}
	return m
}

// Op returns the currently active op, mostly for tests/introspection.
func (m *Machine) Op() Op { return m.op }

// Enter rebases focus onto the new op and ends the old one (spec §4.5:
// "rebase" is called on every op transition so pointer-constraint state
// carries over).
func (m *Machine) Enter(op Op) {
	if m.op != nil {
		m.op.End()
	}
	m.op = op
	m.op.Rebase()
	wsmlog.Debugf(wsmlog.CatSeat, "cursor op transition", "op", op)
}

func (m *Machine) Button(btn Button, pressed bool) {
	if pressed {
		m.pressed[btn] = true
	} else {
		delete(m.pressed, btn)
	}
	m.op.Button(btn, pressed)
}

func (m *Machine) PressedCount() int { return len(m.pressed) }

// SetConstraint installs the pointer confinement/lock region consulted by
// PointerMotion on every move (spec §4.5 pointer constraints).
func (m *Machine) SetConstraint(c *Constraint) { m.constraint = c }

// ClearConstraint removes the active pointer constraint, if any.
func (m *Machine) ClearConstraint() { m.constraint = nil }

func (m *Machine) PointerMotion(x, y float64) {
	x, y = m.constraint.Clamp(x, y)
	m.X, m.Y = x, y
	m.op.PointerMotion(x, y)
}

func (m *Machine) PointerAxis(dx, dy float64) { m.op.PointerAxis(dx, dy) }

// TouchTarget describes the input capability of the surface a touch-down
// landed on, used to gate touch-to-pointer simulation (spec §4.5).
type TouchTarget struct {
	AcceptsTouch   bool
	AcceptsPointer bool
	Backend        toolkit.ViewBackend
}

// TargetFromView builds a TouchTarget from a mapped view, or the zero
// target (accepts neither) if v is nil.
func TargetFromView(v *view.View) TouchTarget {
	if v == nil {
		return TouchTarget{}
	}
	return TouchTarget{AcceptsTouch: v.AcceptsTouch, AcceptsPointer: v.AcceptsPointer, Backend: v.Backend}
}

func (m *Machine) TouchDown(id TouchID, x, y float64, target TouchTarget) {
	if !m.hasSimulatedTouch && m.PressedCount() == 0 && !target.AcceptsTouch && target.AcceptsPointer {
		// A touch landing on a surface that wants pointer input but not
		// touch drives pointer semantics for its duration: warp the
		// cursor there and synthesize the left-button press the surface
		// expects (spec §4.5 touch-to-pointer simulation).
		m.hasSimulatedTouch = true
		m.simulatingFromTouch = id
		m.simulatingBackend = target.Backend
		m.X, m.Y = x, y
		if target.Backend != nil {
			target.Backend.SynthesizePointerButton(true)
		}
	}
	m.op.TouchDown(id, x, y)
}

func (m *Machine) TouchMotion(id TouchID, x, y float64) {
	if m.hasSimulatedTouch && id == m.simulatingFromTouch {
		m.X, m.Y = x, y
	}
	m.op.TouchMotion(id, x, y)
}

func (m *Machine) TouchUp(id TouchID) {
	if m.hasSimulatedTouch && id == m.simulatingFromTouch {
		m.endSimulatedTouch()
	}
	m.op.TouchUp(id)
}

func (m *Machine) TouchCancel(id TouchID) {
	if m.hasSimulatedTouch && id == m.simulatingFromTouch {
		m.endSimulatedTouch()
	}
	m.op.TouchCancel(id)
}

func (m *Machine) endSimulatedTouch() {
	if m.simulatingBackend != nil {
		m.simulatingBackend.SynthesizePointerButton(false)
	}
	m.hasSimulatedTouch = false
	m.simulatingBackend = nil
}

// Unref notifies the active op that a node it may be tracking is being
// destroyed (spec §4.5, boundary on container destruction mid-gesture).
func (m *Machine) Unref(id node.ID) { m.op.Unref(id) }

func (m *Machine) AllowSetCursor() bool { return m.op.AllowSetCursor() }

// Rebase re-derives any cursor-op state that depends on the scene/focus
// having just changed (spec §4.5: "rebuilt whenever focus crosses the
// constraining surface"). Forwarded to the active op; Default's no-op
// default means this is only meaningful mid-gesture.
func (m *Machine) Rebase() { m.op.Rebase() }
