// Package cursor implements the seat-op cursor state machine of spec §4.5:
// Default / MoveFloating / ResizeFloating / Down / TouchDown, pointer
// constraints, and touch-to-pointer simulation.
//
// The press/track/release shape of each op is grounded on
// gioui.org/gesture/gesture.go's Drag/Click state machines (a gesture
// tracks an anchor position and a pressed-state boolean, then computes a
// delta on each motion event) -- though wsm's ops mutate layout geometry
// instead of emitting UI events.
package cursor

import "github.com/wsmwm/wsm/internal/node"

// Button is a pointer button bit, ordered the way a sorted pressed-button
// set would be iterated (spec §4.5 Default op responsibility).
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonRight
	ButtonMiddle
)

// TouchID identifies one active touch point.
type TouchID uint32

// Op is one state of the seat-op state machine (spec §4.5's table). Every
// op implements the full method set; Base supplies pass-through/no-op
// defaults so a concrete op only overrides what it actually handles
// (SPEC_FULL.md supplement #5: the default op forwards gestures
// unconditionally).
type Op interface {
	Button(btn Button, pressed bool)
	PointerMotion(x, y float64)
	PointerAxis(dx, dy float64)
	TabletToolTip(x, y float64, down bool)
	TabletToolMotion(x, y float64)
	TouchDown(id TouchID, x, y float64)
	TouchMotion(id TouchID, x, y float64)
	TouchUp(id TouchID)
	TouchCancel(id TouchID)
	HoldBegin()
	HoldEnd()
	PinchBegin()
	PinchUpdate(scale float64)
	PinchEnd()
	SwipeBegin()
	SwipeUpdate(dx, dy float64)
	SwipeEnd()
	Rebase()
	Unref(id node.ID)
	End()
	AllowSetCursor() bool
}

// Base implements Op with no-op/pass-through defaults. Embed it in a
// concrete op and override only the methods that op cares about.
type Base struct{}

func (Base) Button(Button, bool)          {}
func (Base) PointerMotion(float64, float64) {}
func (Base) PointerAxis(float64, float64) {}
func (Base) TabletToolTip(float64, float64, bool) {}
func (Base) TabletToolMotion(float64, float64)    {}
func (Base) TouchDown(TouchID, float64, float64)  {}
func (Base) TouchMotion(TouchID, float64, float64) {}
func (Base) TouchUp(TouchID)                      {}
func (Base) TouchCancel(TouchID)                  {}
func (Base) HoldBegin()                           {}
func (Base) HoldEnd()                             {}
func (Base) PinchBegin()                          {}
func (Base) PinchUpdate(float64)                  {}
func (Base) PinchEnd()                            {}
func (Base) SwipeBegin()                          {}
func (Base) SwipeUpdate(float64, float64)         {}
func (Base) SwipeEnd()                            {}
func (Base) Rebase()                              {}
func (Base) Unref(node.ID)                        {}
func (Base) End()                                 {}
func (Base) AllowSetCursor() bool                 { return true }
