// Package workspace implements the workspace/output tree and lifecycle of
// spec §4.2 and §3 (Workspace, Output), component 4: workspace lifecycle,
// workspace->output assignment, and evacuation.
package workspace

import (
	"image"

	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit"
)

// Workspace is a named collection of containers visible or hidden on its
// owning output (spec §3 Workspace).
type Workspace struct {
	NodeID node.ID

	Name   string
	Layout container.Layout

	Tiling   []node.ID
	Floating []node.ID

	Fullscreen node.ID // zero if none

	Geometry image.Rectangle

	InnerGap, OuterGap int

	// OutputPriority lists preferred output names in order, consulted by
	// evacuation and workspace->output (re)assignment.
	OutputPriority []string

	OutputID node.ID

	NonFullscreenTree toolkit.SceneTree
	FullscreenTree    toolkit.SceneTree

	// FocusedInactiveChild mirrors Container's field but at workspace
	// scope: "what was focused inside this workspace last" among its
	// direct tiling/floating children, used by get_focus_inactive.
	FocusedInactiveChild node.ID
}

// New creates a workspace under output and registers it in the arena.
func New(a *node.Arena, name string, outputID node.ID, parentTree toolkit.SceneTree) *Workspace {
	w := &Workspace{
		Name:     name,
		OutputID: outputID,
	}
	n := a.Create(node.VariantWorkspace, w)
	w.NodeID = n.ID
	if parentTree != nil {
		w.NonFullscreenTree = parentTree.CreateTree()
		w.FullscreenTree = parentTree.CreateTree()
		w.FullscreenTree.SetEnabled(false)
	}
	return w
}

// Lookup resolves a node.ID to its *Workspace payload.
func Lookup(a *node.Arena, id node.ID) *Workspace {
	n := a.Get(id)
	if n == nil {
		return nil
	}
	w, _ := n.Payload.(*Workspace)
	return w
}

// Empty reports whether the workspace has no tiling and no floating
// containers, a precondition for destruction (spec §3 Lifecycle summary).
func (w *Workspace) Empty() bool {
	return len(w.Tiling) == 0 && len(w.Floating) == 0
}

// AddTiling appends c to the tiling list and marks the workspace dirty,
// maintaining invariant 5 (disjoint from Floating) by construction: callers
// must not also be present in Floating.
func (w *Workspace) AddTiling(a *node.Arena, c *container.Container) {
	w.Tiling = append(w.Tiling, c.NodeID)
	c.Pending.Workspace = w.NodeID
	markDirty(a, w.NodeID)
	markDirty(a, c.NodeID)
}

// AddFloating appends c to the floating list.
func (w *Workspace) AddFloating(a *node.Arena, c *container.Container) {
	w.Floating = append(w.Floating, c.NodeID)
	c.Pending.Workspace = w.NodeID
	markDirty(a, w.NodeID)
	markDirty(a, c.NodeID)
}

// RemoveContainer removes id from whichever list it's in (at most one, by
// invariant 5).
func (w *Workspace) RemoveContainer(a *node.Arena, id node.ID) {
	if idx := indexOf(w.Tiling, id); idx >= 0 {
		w.Tiling = deleteAt(w.Tiling, idx)
		markDirty(a, w.NodeID)
		return
	}
	if idx := indexOf(w.Floating, id); idx >= 0 {
		w.Floating = deleteAt(w.Floating, idx)
		markDirty(a, w.NodeID)
	}
}

// PromoteFullscreen claims the workspace's single FullscreenWorkspace slot
// for c, enforcing invariant 2 (at most one fullscreen container per
// workspace): if another container already holds it, that container is
// demoted first. outputRect is the full extent of the workspace's output.
func (w *Workspace) PromoteFullscreen(a *node.Arena, c *container.Container, outputRect image.Rectangle) {
	if w.Fullscreen != 0 && w.Fullscreen != c.NodeID {
		if prev := container.Lookup(a, w.Fullscreen); prev != nil {
			w.DemoteFullscreen(a, prev)
		}
	}
	container.FullscreenEnable(a, c, container.FullscreenWorkspace,
		outputRect.Min.X, outputRect.Min.Y, outputRect.Dx(), outputRect.Dy())
	w.Fullscreen = c.NodeID
	if c.SceneTree != nil && w.FullscreenTree != nil {
		c.SceneTree.Reparent(w.FullscreenTree)
	}
	if w.FullscreenTree != nil {
		w.FullscreenTree.SetEnabled(true)
	}
	if w.NonFullscreenTree != nil {
		w.NonFullscreenTree.SetEnabled(false)
	}
	markDirty(a, w.NodeID)
}

// DemoteFullscreen releases the workspace's fullscreen claim if c holds it,
// restoring c's pre-fullscreen geometry and scene placement (spec S1).
func (w *Workspace) DemoteFullscreen(a *node.Arena, c *container.Container) {
	if w.Fullscreen != c.NodeID {
		return
	}
	container.FullscreenDisable(a, c)
	w.Fullscreen = 0
	if c.SceneTree != nil && w.NonFullscreenTree != nil {
		c.SceneTree.Reparent(w.NonFullscreenTree)
	}
	if w.FullscreenTree != nil {
		w.FullscreenTree.SetEnabled(false)
	}
	if w.NonFullscreenTree != nil {
		w.NonFullscreenTree.SetEnabled(true)
	}
	markDirty(a, w.NodeID)
}

func markDirty(a *node.Arena, id node.ID) {
	if n := a.Get(id); n != nil {
		a.MarkDirty(n)
	}
}

func indexOf(ids []node.ID, target node.ID) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}

func deleteAt(ids []node.ID, idx int) []node.ID {
	return append(ids[:idx], ids[idx+1:]...)
}

// AttachStickyFloaters moves every sticky container in from.Floating into
// to.Floating, leaving non-sticky ones behind. This is invariant 8's
// workspace-switch-survival rule (spec §4.2 Sticky); Evacuate does not
// call it.
func AttachStickyFloaters(a *node.Arena, from, to *Workspace) {
	var stillThere []node.ID
	for _, id := range from.Floating {
		c := container.Lookup(a, id)
		if c != nil && c.Pending.Sticky {
			to.Floating = append(to.Floating, id)
			c.Pending.Workspace = to.NodeID
			markDirty(a, id)
		} else {
			stillThere = append(stillThere, id)
		}
	}
	from.Floating = stillThere
	if len(from.Floating) != len(stillThere) || len(to.Floating) > 0 {
		markDirty(a, from.NodeID)
		markDirty(a, to.NodeID)
	}
}

// Arrange lays out every tiling child of the workspace according to its
// own layout, by treating the workspace itself as the root split for this
// output: it builds a synthetic top container carrying the workspace's
// layout, geometry and Tiling list, and runs container.Arrange on it.
func (w *Workspace) Arrange(a *node.Arena) {
	top := &container.Container{NodeID: w.NodeID}
	top.Pending.Layout = w.Layout
	top.Pending.X, top.Pending.Y, top.Pending.Width, top.Pending.Height =
		w.Geometry.Min.X, w.Geometry.Min.Y, w.Geometry.Dx(), w.Geometry.Dy()
	top.Pending.Children = w.Tiling
	container.Arrange(a, top)
}
