package transaction

import (
	"time"

	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/view"
	"github.com/wsmwm/wsm/internal/wsmlog"
	ws "github.com/wsmwm/wsm/internal/workspace"
)

// commit is the commit phase (spec §4.3.5): configure every mapped view
// whose content box changed, count outstanding acks, and arm the timeout
// timer if any are outstanding.
func (e *Engine) commit(txn *Transaction) {
	for _, instr := range txn.Instructions {
		if instr.Variant != node.VariantContainer || instr.View == nil || instr.ContainerState == nil {
			continue
		}
		v := instr.View
		if !v.Mapped() {
			instr.Waiting = false
			continue
		}
		content := instr.ContainerState.ContentRect()
		instr.GeometryRect = content
		changed := v.ContentSizeChanged(content.Size())
		if v.Type == view.ClientXWayland && v.ContentOriginChanged(content.Min) {
			// XWayland has no configure serial to ack a move with, so a
			// pure move (no resize) must still be treated as a change or
			// it would never get configured/ack-waited (spec §4.3.5, §4.3.6).
			changed = true
		}

		visible := true
		if e.IsVisible != nil {
			visible = e.IsVisible(instr.NodeID)
		}

		if changed {
			serial := v.Backend.Configure(content.Dx(), content.Dy())
			instr.Serial = serial
			v.PendingSerial = serial
			v.EnsureSavedSurface()
			wsmlog.Debugf(wsmlog.CatTransaction, "configure sent", "node", instr.NodeID, "w", content.Dx(), "h", content.Dy(), "serial", serial)
		}

		if changed && visible {
			instr.Waiting = true
			txn.NumWaiting++
		} else {
			// B1: unchanged size needs no configure and is ready
			// immediately; an invisible view is sent its configure but not
			// waited on (spec §4.3.5).
			instr.Waiting = false
		}
	}

	if txn.NumWaiting > 0 {
		e.timer.Start(time.Duration(e.TimeoutMs)*time.Millisecond, e.timeoutFire)
	} else {
		e.progress()
	}
}

// ViewReadyBySerial matches an XDG-shell configure ack by serial.
func (e *Engine) ViewReadyBySerial(nodeID node.ID, serial uint32) bool {
	if e.queued == nil {
		return false
	}
	instr, ok := e.queued.Instructions[nodeID]
	if !ok || !instr.Waiting {
		return false
	}
	if uint32(instr.Serial) != serial {
		return false
	}
	e.setInstructionReady(instr)
	return true
}

// ViewReadyByGeometry matches an XWayland ack, which has no serial, by
// exact truncated content geometry (spec §4.3.6, boundary B2).
func (e *Engine) ViewReadyByGeometry(nodeID node.ID, x, y, width, height int) bool {
	if e.queued == nil {
		return false
	}
	instr, ok := e.queued.Instructions[nodeID]
	if !ok || !instr.Waiting {
		return false
	}
	r := instr.GeometryRect
	if r.Min.X != x || r.Min.Y != y || r.Dx() != width || r.Dy() != height {
		return false
	}
	e.setInstructionReady(instr)
	return true
}

func (e *Engine) setInstructionReady(instr *Instruction) {
	if !instr.Waiting {
		return
	}
	instr.Waiting = false
	if instr.View != nil {
		instr.View.PendingSerial = 0
	}
	e.queued.NumWaiting--
	if e.queued.NumWaiting <= 0 {
		e.timer.Stop()
		e.progress()
	}
}

// timeoutFire is the timer-expiry handler (spec §4.3.7): num_waiting is
// forced to zero and progress runs regardless of outstanding acks.
func (e *Engine) timeoutFire() {
	if e.queued == nil {
		return
	}
	wsmlog.Debugf(wsmlog.CatTransaction, "timeout fired, forcing apply", "txn", e.queued.ID)
	e.queued.NumWaiting = 0
	e.progress()
}

// progress applies the queued transaction and, if a pending transaction
// accumulated during the wait, immediately commits it too (spec §4.3.8
// final step).
func (e *Engine) progress() {
	txn := e.queued
	if txn == nil {
		return
	}
	e.apply(txn)
	if e.OnApplied != nil {
		e.OnApplied(txn)
	}
	e.freeInstructions(txn)
	e.queued = nil

	if e.pending != nil {
		e.commitPending()
	}
}

// apply copies every instruction's state into its node's current slot,
// per-variant, per spec §4.3.8.
func (e *Engine) apply(txn *Transaction) {
	for _, instr := range txn.Instructions {
		n := e.Arena.Get(instr.NodeID)
		if n == nil {
			continue
		}
		switch instr.Variant {
		case node.VariantOutput:
			if out, ok := n.Payload.(*ws.Output); ok && instr.OutputState != nil {
				out.Manager.Workspaces = instr.OutputState.Workspaces
				out.Manager.ActiveID = instr.OutputState.Active
			}
		case node.VariantWorkspace:
			if w, ok := n.Payload.(*ws.Workspace); ok && instr.WorkspaceState != nil {
				w.Floating = instr.WorkspaceState.Floating
				w.Tiling = instr.WorkspaceState.Tiling
				w.FocusedInactiveChild = instr.WorkspaceState.FocusedInactiveChild
			}
		case node.VariantContainer:
			if c, ok := n.Payload.(*container.Container); ok && instr.ContainerState != nil {
				c.Current = *instr.ContainerState
				if c.View != nil {
					c.View.Geometry = instr.ContainerState.ContentRect()
					if c.View.SavedSurface != nil && !n.Destroying && !instr.Waiting {
						c.View.DropSavedSurface()
					}
					updateForeignToplevel(c)
				}
			}
		}
	}
}

// updateForeignToplevel refreshes a view's foreign-toplevel-management
// handle from its just-applied container state (SPEC_FULL.md supplement
// #2): title and the fullscreen bit track the container's current
// geometry claim directly; activation/minimized are set separately by the
// seat (they are focus/scene-membership facts, not transaction outputs).
func updateForeignToplevel(c *container.Container) {
	if c.View.Foreign == nil {
		c.View.Foreign = &view.ForeignToplevelHandle{}
	}
	fh := c.View.Foreign
	fh.Title = c.Current.Title

	fh.State &^= view.FTFullscreen
	if c.Current.Fullscreen != container.FullscreenNone {
		fh.State |= view.FTFullscreen
	}
}

// freeInstructions releases each instruction's reference on its node,
// finally freeing any node whose destroy was pending on this transaction
// (spec §4.3.8, boundary B3).
func (e *Engine) freeInstructions(txn *Transaction) {
	for _, instr := range txn.Instructions {
		n := e.Arena.Get(instr.NodeID)
		if n == nil {
			continue
		}
		if n.Pending == instr {
			n.Pending = nil
		}
		e.Arena.Unref(n)
	}
}
