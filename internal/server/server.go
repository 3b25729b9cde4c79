// Package server wires the node arena, scene graph, transaction engine,
// seats, and output configuration pipeline into the single process-wide
// context of spec §3 Root and §5's event-loop model.
//
// Grounded on original_source/compositor/wsm_server.c: one global struct
// referenced from every subsystem, threaded explicitly here as *Server
// rather than as a singleton (spec §9 Design Notes, "Global state").
package server

import (
	"image"
	"time"

	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/outputcfg"
	"github.com/wsmwm/wsm/internal/scene"
	"github.com/wsmwm/wsm/internal/seat"
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/transaction"
	"github.com/wsmwm/wsm/internal/wsmlog"
	ws "github.com/wsmwm/wsm/internal/workspace"
)

// Root is the VariantRoot node's payload: the top of the node tree (spec
// §3 Root), holding the live output list, the fallback headless output, and
// the scratchpad.
type Root struct {
	Outputs []node.ID

	// Fallback is the headless output workspaces are evacuated onto when no
	// real sibling output exists (spec §3 Root, scenario S6). It is never
	// part of Outputs: it holds no backend and is never enabled through the
	// output configuration pipeline.
	Fallback node.ID

	// Scratchpad is the ordered list of containers hidden from every
	// workspace by the scratchpad show/hide operation (spec §3 Root, §4.2
	// Scratchpad).
	Scratchpad []node.ID
}

// Server is the compositor core's process-wide context.
type Server struct {
	RootID node.ID
	Arena  *node.Arena

	Global *scene.Global

	Engine *outputcfg.Pipeline
	Txn    *transaction.Engine

	Seats []*seat.Seat

	XWayland bool
}

// New constructs a Server with an empty arena, a scene under root, and a
// transaction engine wired to re-arrange and rebase focus on every applied
// transaction (spec §4.3.8's "server can run arrange_root and rebase
// cursor focus").
func New(rootTree toolkit.SceneTree, swapchain toolkit.SwapchainManager) *Server {
	a := node.NewArena()
	rootPayload := &Root{}
	rn := a.Create(node.VariantRoot, rootPayload)

	s := &Server{
		RootID: rn.ID,
		Arena:  a,
		Global: scene.NewGlobal(rootTree),
		Engine: outputcfg.NewPipeline(swapchain, 30*time.Second),
		Txn:    transaction.NewEngine(a),
	}
	s.Txn.OnApplied = s.onApplied
	s.Txn.IsVisible = s.isVisible

	fallback := ws.New(a, nil, s.Global)
	fallback.Enable(a)
	rootPayload.Fallback = fallback.NodeID

	return s
}

func (s *Server) root() *Root {
	n := s.Arena.Get(s.RootID)
	if n == nil {
		return nil
	}
	r, _ := n.Payload.(*Root)
	return r
}

// AddSeat creates a seat sharing this server's arena and transaction
// commit path (cursor ops call back into CommitDirtyClient/MarkDirty).
func (s *Server) AddSeat() *seat.Seat {
	st := seat.New(s.Arena, seatHost{s})
	s.Seats = append(s.Seats, st)
	return st
}

type seatHost struct{ s *Server }

func (h seatHost) MarkDirty(id node.ID)  { markDirty(h.s.Arena, id) }
func (h seatHost) CommitDirtyClient()    { h.s.Txn.CommitDirtyClient() }

func markDirty(a *node.Arena, id node.ID) {
	if n := a.Get(id); n != nil {
		a.MarkDirty(n)
	}
}

// AddOutput registers backend as a new Output under this server's scene
// and root (spec §3 Output Lifecycle: "created on new-output event").
func (s *Server) AddOutput(backend toolkit.OutputBackend) *ws.Output {
	out := ws.New(s.Arena, backend, s.Global)
	if r := s.root(); r != nil {
		r.Outputs = append(r.Outputs, out.NodeID)
	}
	return out
}

// RemoveOutput tears an output down (scenario S6, output hot-unplug):
// evacuate its workspaces to dst, or to the fallback headless output when no
// sibling exists (spec §3 Root, Output Lifecycle: "evacuating workspaces to
// a sibling or to the fallback output"), remove it from root.outputs, and
// commit one transaction.
func (s *Server) RemoveOutput(outID node.ID, dst *ws.Output) {
	out := ws.LookupOutput(s.Arena, outID)
	if out == nil {
		return
	}

	target := dst
	if target == nil {
		target = s.fallbackOutput()
	}
	if target != nil && target.NodeID != outID {
		emptied := ws.Evacuate(s.Arena, out, target)
		for _, wsID := range emptied {
			s.destroyWorkspaceIfIdle(wsID)
		}
	}

	if r := s.root(); r != nil {
		r.Outputs = removeID(r.Outputs, outID)
	}

	n := s.Arena.Get(outID)
	if n != nil {
		n.BeginDestroy()
		if n.TxnRefs == 0 {
			s.Arena.Unref(n)
		}
	}

	s.ArrangeRoot()
	s.Txn.CommitDirty()
	wsmlog.Infof(wsmlog.CatOutput, "output removed", "output", outID)
}

// fallbackOutput resolves root.Fallback, the headless output evacuation
// target used when no real sibling output exists (spec §3 Root).
func (s *Server) fallbackOutput() *ws.Output {
	r := s.root()
	if r == nil {
		return nil
	}
	return ws.LookupOutput(s.Arena, r.Fallback)
}

// UnmapView begins a container's destroy on client unmap (spec §3 Container
// lifecycle): the view is unmapped, its container leaves the workspace's
// tiling/floating list and its scene node is parked in staging, and a
// transaction is committed to re-arrange whatever took its place.
func (s *Server) UnmapView(c *container.Container) {
	ws.UnmapContainer(s.Arena, s.Global, c)
	for _, st := range s.Seats {
		st.Remove(c.NodeID)
	}
	s.Txn.CommitDirty()
}

func (s *Server) destroyWorkspaceIfIdle(id node.ID) {
	w := ws.Lookup(s.Arena, id)
	if w == nil || !w.Empty() {
		return
	}
	for _, st := range s.Seats {
		if st.Contains(id) {
			return
		}
	}
	n := s.Arena.Get(id)
	if n != nil {
		n.BeginDestroy()
		if n.TxnRefs == 0 {
			s.Arena.Unref(n)
		}
	}
}

func removeID(ids []node.ID, target node.ID) []node.ID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// ArrangeRoot re-arranges every enabled output's active workspace by
// re-running layout top-down over its tiling tree. It recomputes pending
// geometry only; no scene tree is reparented, resized or enabled here.
func (s *Server) ArrangeRoot() {
	r := s.root()
	if r == nil {
		return
	}
	for _, outID := range r.Outputs {
		out := ws.LookupOutput(s.Arena, outID)
		if out == nil || !out.Enabled {
			continue
		}
		active := out.Manager.Active(s.Arena)
		if active == nil {
			continue
		}
		active.Geometry = out.UsableArea
		active.Arrange(s.Arena)
		s.arrangeContainerTree(active.Tiling)
	}
}

// arrangeContainerTree re-runs Arrange on every internal container in the
// list, recursively, since container.Arrange only distributes one level of
// children at a time (spec §9 "arrange2" semantics).
func (s *Server) arrangeContainerTree(ids []node.ID) {
	for _, id := range ids {
		c := container.Lookup(s.Arena, id)
		if c == nil || c.IsLeaf() {
			continue
		}
		container.Arrange(s.Arena, c)
		s.arrangeContainerTree(c.Pending.Children)
	}
}

// isVisible reports whether a container is visible for transaction-wait
// purposes (spec §4.3.5): a Stacked/Tabbed sibling that isn't the visible
// child need not be waited on.
func (s *Server) isVisible(id node.ID) bool {
	c := container.Lookup(s.Arena, id)
	if c == nil {
		return true
	}
	parentID := c.Pending.Parent
	if parentID == 0 {
		return true
	}
	parent := container.Lookup(s.Arena, parentID)
	if parent == nil {
		return true
	}
	switch parent.Pending.Layout {
	case container.LayoutStacked, container.LayoutTabbed:
		return container.VisibleChild(parent) == id
	default:
		return true
	}
}

// SetFullscreen promotes or demotes c's fullscreen claim, enforcing
// invariant 2 (P4): at most one container per workspace may hold
// FullscreenWorkspace, and at most one container in the whole scene may
// hold FullscreenGlobal. Promoting into either slot demotes whatever
// container previously held it, and demotes c out of the other slot first
// since a container can only claim one mode at a time.
func (s *Server) SetFullscreen(c *container.Container, mode container.FullscreenMode) {
	w := ws.Lookup(s.Arena, c.Pending.Workspace)
	if w == nil {
		return
	}
	out := ws.LookupOutput(s.Arena, w.OutputID)
	var outputRect image.Rectangle
	if out != nil {
		outputRect = out.UsableArea
	}

	switch mode {
	case container.FullscreenWorkspace:
		s.Global.DemoteGlobalFullscreen(c.NodeID)
		w.PromoteFullscreen(s.Arena, c, outputRect)
		if out != nil {
			out.Scene.SetWorkspaceFullscreen(true)
		}

	case container.FullscreenGlobal:
		w.DemoteFullscreen(s.Arena, c)
		if prev := s.Global.PromoteGlobalFullscreen(c.NodeID); prev != 0 {
			s.demoteFullscreenHolder(prev)
		}
		container.FullscreenEnable(s.Arena, c, container.FullscreenGlobal,
			outputRect.Min.X, outputRect.Min.Y, outputRect.Dx(), outputRect.Dy())
		if c.SceneTree != nil {
			c.SceneTree.Reparent(s.Global.Layer(scene.LayerFullscreenGlobal))
		}

	default: // container.FullscreenNone
		w.DemoteFullscreen(s.Arena, c)
		if s.Global.GlobalFullscreenHolder() == c.NodeID {
			s.Global.DemoteGlobalFullscreen(c.NodeID)
			s.reparentIntoWorkspace(c, w)
		}
		if out != nil {
			out.Scene.SetWorkspaceFullscreen(false)
		}
	}
}

// demoteFullscreenHolder clears a container's fullscreen claim and returns
// it to its workspace's ordinary (non-fullscreen) scene placement, used
// when a global-fullscreen promotion displaces the previous holder.
func (s *Server) demoteFullscreenHolder(id node.ID) {
	c := container.Lookup(s.Arena, id)
	if c == nil {
		return
	}
	container.FullscreenDisable(s.Arena, c)
	if w := ws.Lookup(s.Arena, c.Pending.Workspace); w != nil {
		s.reparentIntoWorkspace(c, w)
	}
}

// reparentIntoWorkspace returns c's scene tree to w's ordinary (non
// fullscreen) placement.
func (s *Server) reparentIntoWorkspace(c *container.Container, w *ws.Workspace) {
	if c.SceneTree != nil && w.NonFullscreenTree != nil {
		c.SceneTree.Reparent(w.NonFullscreenTree)
	}
}

// onApplied is the transaction engine's post-apply hook: re-arrange the
// whole tree and rebase every seat's cursor/focus onto whatever the
// pointer is currently over (spec §4.3.8).
func (s *Server) onApplied(txn *transaction.Transaction) {
	s.ArrangeRoot()
	for _, st := range s.Seats {
		st.Cursor.Rebase()
		hovered := s.nodeAtCoords(st.Cursor.X, st.Cursor.Y)
		st.FocusFollowsMouse(hovered, s.outputAtCoords(st.Cursor.X, st.Cursor.Y), st.ActiveLayer)
	}
}

// nodeAtCoords resolves the leaf container under a point, if any
// (original_source/input/wsm_input_manager.c's node_at_coords).
func (s *Server) nodeAtCoords(x, y float64) node.ID {
	r := s.root()
	if r == nil {
		return 0
	}
	pt := image.Pt(int(x), int(y))
	for _, outID := range r.Outputs {
		out := ws.LookupOutput(s.Arena, outID)
		if out == nil || !out.Enabled {
			continue
		}
		active := out.Manager.Active(s.Arena)
		if active == nil {
			continue
		}
		if id := findLeafAt(s.Arena, active.Tiling, pt); id != 0 {
			return id
		}
		if id := findLeafAt(s.Arena, active.Floating, pt); id != 0 {
			return id
		}
	}
	return 0
}

func findLeafAt(a *node.Arena, ids []node.ID, pt image.Point) node.ID {
	for _, id := range ids {
		c := container.Lookup(a, id)
		if c == nil {
			continue
		}
		r := image.Rect(c.Pending.X, c.Pending.Y, c.Pending.X+c.Pending.Width, c.Pending.Y+c.Pending.Height)
		if !pt.In(r) {
			continue
		}
		if c.IsLeaf() {
			return id
		}
		if id := findLeafAt(a, c.Pending.Children, pt); id != 0 {
			return id
		}
	}
	return 0
}

// outputAtCoords resolves which output's usable area contains a point.
func (s *Server) outputAtCoords(x, y float64) node.ID {
	r := s.root()
	if r == nil {
		return 0
	}
	pt := image.Pt(int(x), int(y))
	for _, outID := range r.Outputs {
		out := ws.LookupOutput(s.Arena, outID)
		if out != nil && pt.In(out.UsableArea) {
			return outID
		}
	}
	return 0
}
