// Package seat implements the seat & focus subsystem of spec §4.4: the
// per-seat focus stack, focus-follow-mouse, drag & drop, and session lock.
//
// The focus stack's entry/ordering shape is grounded on
// gioui.org/io/input/router.go's event.Tag-keyed handler bookkeeping
// (opaque node identity, most-recently-relevant first); the actual
// focus/unfocus transition logic is grounded on
// original_source/input/wsm_seat.c's seat_set_focus.
package seat

import (
	"github.com/google/uuid"
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/cursor"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit"
	ws "github.com/wsmwm/wsm/internal/workspace"
)

// SeatNode is one entry in a Seat's focus stack (spec §4.4.1).
type SeatNode struct {
	NodeID node.ID
}

// Layer is the minimal layer-shell surface shape the seat needs for
// keyboard-interactive override (spec §4.4.1's "layer override").
type Layer struct {
	Handle              toolkit.ViewBackend
	KeyboardInteractive bool
}

// Drag is an in-progress drag-and-drop operation (spec §4.4.3).
type Drag struct {
	IconTree toolkit.SceneTree
	X, Y     int
}

// Seat is one input seat: a focus stack plus the cursor op machine that
// shares its pointer position (spec §3 mentions "seat" only implicitly via
// §4.4/§4.5; this struct is the composition root for both).
type Seat struct {
	ID string

	Arena *node.Arena

	// focusStack is most-recent-focused first (spec §4.4.1). A slice
	// models the doubly-linked list: move-to-front on focus, O(n)
	// removal on destroy, both cheap at WM-scale node counts.
	focusStack []SeatNode

	// ActiveLayer is a layer surface holding exclusive keyboard focus
	// that overrides normal focus.
	ActiveLayer *Layer

	Cursor *cursor.Machine

	drag *Drag

	locked     bool
	lockClient *LockClient

	// preLockFocus is the focus stack head saved when the lock engages,
	// restored on unlock (spec §4.4.4).
	preLockFocus node.ID

	lastHovered node.ID
	lastOutput  node.ID

	// constraints holds the pointer confinement/lock region registered for
	// a view, keyed by its container's node id (spec §4.5 pointer
	// constraints). Kept on Seat rather than View itself since cursor
	// already depends on container/view and a View field here would cycle
	// back through cursor.
	constraints map[node.ID]*cursor.Constraint
}

// New constructs a Seat with an empty focus stack and a cursor machine in
// the Default op.
func New(a *node.Arena, host cursor.Host) *Seat {
	return &Seat{
		ID:     uuid.NewString(),
		Arena:  a,
		Cursor: cursor.NewMachine(host),
	}
}

// Contains reports whether id is present anywhere in the focus stack.
func (s *Seat) Contains(id node.ID) bool {
	for _, sn := range s.focusStack {
		if sn.NodeID == id {
			return true
		}
	}
	return false
}

// Len is the focus stack's length, mostly for invariant P7 tests.
func (s *Seat) Len() int { return len(s.focusStack) }

// Head returns the currently-focused node id, or zero if the stack is empty.
func (s *Seat) Head() node.ID {
	if len(s.focusStack) == 0 {
		return 0
	}
	return s.focusStack[0].NodeID
}

// SetRawFocus moves id's entry to the head of the focus stack (creating one
// if absent), marks the node and its parent dirty, and sends no
// keyboard/activation events (spec §4.4.1).
func (s *Seat) SetRawFocus(id node.ID) {
	s.removeFromStack(id)
	s.focusStack = append([]SeatNode{{NodeID: id}}, s.focusStack...)

	if n := s.Arena.Get(id); n != nil {
		s.Arena.MarkDirty(n)
		if parent := parentOf(n); parent != 0 {
			if pn := s.Arena.Get(parent); pn != nil {
				s.Arena.MarkDirty(pn)
			}
		}
	}
}

func (s *Seat) removeFromStack(id node.ID) {
	for i, sn := range s.focusStack {
		if sn.NodeID == id {
			s.focusStack = append(s.focusStack[:i], s.focusStack[i+1:]...)
			return
		}
	}
}

// Remove drops id from the focus stack entirely (called on node destroy),
// maintaining invariant P7 (each live node appears at most once).
func (s *Seat) Remove(id node.ID) {
	s.removeFromStack(id)
	s.Cursor.Unref(id)
}

// ancestorsRootward walks a node id up to the root, outermost first, via
// each variant's parent/workspace/output linkage.
func (s *Seat) ancestorsRootward(id node.ID) []node.ID {
	var chain []node.ID
	cur := id
	for cur != 0 {
		n := s.Arena.Get(cur)
		if n == nil {
			break
		}
		chain = append(chain, cur)
		cur = parentOf(n)
	}
	// Reverse to root-wards order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func parentOf(n *node.Node) node.ID {
	switch p := n.Payload.(type) {
	case *container.Container:
		if p.Pending.Parent != 0 {
			return p.Pending.Parent
		}
		return p.Pending.Workspace
	case *ws.Workspace:
		return p.OutputID
	default:
		return 0
	}
}

// SetFocus is the public focus operation (spec §4.4.1): raw-focus every
// ancestor root-wards then the target, unfocus the previous head, and (for
// a view) send keyboard enter. If a layer surface holds exclusive keyboard
// interactivity, focus is set into the workspace silently and the layer
// focus is re-asserted afterwards.
func (s *Seat) SetFocus(id node.ID) {
	prev := s.Head()

	for _, anc := range s.ancestorsRootward(id) {
		s.SetRawFocus(anc)
	}

	if s.ActiveLayer != nil && s.ActiveLayer.KeyboardInteractive {
		s.reassertLayerFocus()
		return
	}
	if prev == id {
		return
	}
	if prev != 0 {
		s.deactivate(prev)
	}
	s.activate(id)
}

func (s *Seat) deactivate(id node.ID) {
	c := container.Lookup(s.Arena, id)
	if c == nil || c.View == nil {
		return
	}
	c.View.Backend.KeyboardLeave()
	c.View.Backend.SetActivated(false)
}

// activate sends keyboard enter and activation to id's view, if any, clears
// its urgency, and rebuilds the cursor's pointer constraint for whatever
// surface is now focused (spec §4.4.1 set_focus, §4.5 "rebuilt whenever
// focus crosses the constraining surface").
func (s *Seat) activate(id node.ID) {
	if c := container.Lookup(s.Arena, id); c != nil && c.View != nil {
		c.View.Urgent = false
		c.View.Backend.SetActivated(true)
		c.View.Backend.KeyboardEnter()
	}
	s.Cursor.SetConstraint(s.constraints[id])
}

// SetConstraint registers a pointer confinement/lock region for id's view,
// taking effect immediately if id currently holds focus (spec §4.5 pointer
// constraints).
func (s *Seat) SetConstraint(id node.ID, c *cursor.Constraint) {
	if s.constraints == nil {
		s.constraints = make(map[node.ID]*cursor.Constraint)
	}
	s.constraints[id] = c
	if s.Head() == id {
		s.Cursor.SetConstraint(c)
	}
}

// ClearConstraint removes id's pointer constraint, if any.
func (s *Seat) ClearConstraint(id node.ID) {
	delete(s.constraints, id)
	if s.Head() == id {
		s.Cursor.ClearConstraint()
	}
}

func (s *Seat) reassertLayerFocus() {
	// The layer surface keeps keyboard focus regardless of workspace focus
	// changes; nothing further to do beyond leaving ActiveLayer set, since
	// keyboard routing consults ActiveLayer first (spec §4.4.1).
}

// SetExclusiveLayer installs a keyboard-interactive layer override (spec
// §4.4.1/§4.4.4 layer-shell exclusive focus, scenario S5).
func (s *Seat) SetExclusiveLayer(l *Layer) {
	s.ActiveLayer = l
}

// ClearExclusiveLayer removes the layer override, restoring normal focus
// routing.
func (s *Seat) ClearExclusiveLayer() {
	s.ActiveLayer = nil
}

// GetFocusInactive walks the stack for the top entry that is a descendant
// of ancestor (spec §4.4.1).
func (s *Seat) GetFocusInactive(ancestor node.ID) node.ID {
	for _, sn := range s.focusStack {
		if s.isDescendant(sn.NodeID, ancestor) {
			return sn.NodeID
		}
	}
	return 0
}

func (s *Seat) isDescendant(id, ancestor node.ID) bool {
	cur := id
	for cur != 0 {
		if cur == ancestor {
			return true
		}
		n := s.Arena.Get(cur)
		if n == nil {
			return false
		}
		cur = parentOf(n)
	}
	return false
}

// FocusFollowsMouse implements spec §4.4.2: on pointer motion, move focus
// only for the three listed crossing conditions.
func (s *Seat) FocusFollowsMouse(hovered node.ID, hoveredOutput node.ID, layer *Layer) {
	defer func() {
		s.lastHovered = hovered
		s.lastOutput = hoveredOutput
	}()

	if layer != nil && layer.KeyboardInteractive {
		s.SetExclusiveLayer(layer)
		return
	}

	if hoveredOutput != 0 && hoveredOutput != s.lastOutput {
		out := ws.LookupOutput(s.Arena, hoveredOutput)
		if out != nil {
			if target := s.GetFocusInactive(out.Manager.ActiveID); target != 0 {
				s.SetFocus(target)
			}
		}
		return
	}

	if hovered != 0 && hovered != s.lastHovered {
		c := container.Lookup(s.Arena, hovered)
		if c != nil && c.IsLeaf() && c.View != nil && c.View.Mapped() {
			s.SetFocus(hovered)
		}
	}
}

// BeginDrag starts a drag-and-drop operation with an optional icon tree
// (spec §4.4.3).
func (s *Seat) BeginDrag(iconTree toolkit.SceneTree, startX, startY int) {
	s.drag = &Drag{IconTree: iconTree, X: startX, Y: startY}
}

// DragMotion repositions the drag icon to follow the pointer/touch point.
func (s *Seat) DragMotion(x, y int) {
	if s.drag == nil {
		return
	}
	s.drag.X, s.drag.Y = x, y
	if s.drag.IconTree != nil {
		s.drag.IconTree.SetPosition(x, y)
	}
}

// EndDrag finishes the drag, re-focusing whatever was focused before it
// began (spec §4.4.3's "re-focused via set_focus_surface/set_focus_layer").
func (s *Seat) EndDrag() {
	s.drag = nil
	if head := s.Head(); head != 0 {
		s.activate(head)
	}
}

// Dragging reports whether a drag is in progress.
func (s *Seat) Dragging() bool { return s.drag != nil }
