package server

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit/faketk"
	"github.com/wsmwm/wsm/internal/view"
	ws "github.com/wsmwm/wsm/internal/workspace"
)

func newTestServer() *Server {
	root := faketk.NewTree("root")
	sc := &faketk.Swapchain{}
	return New(root, sc)
}

func addEnabledOutput(s *Server, name string, x, y, w, h int) *ws.Output {
	backend := &faketk.Output{NameStr: name, Phys: image.Pt(300, 200)}
	out := s.AddOutput(backend)
	out.UsableArea = image.Rect(x, y, x+w, y+h)
	out.Enable(s.Arena)
	return out
}

func addMappedLeaf(s *Server, wsID node.ID, x, y, w, h int) *container.Container {
	fv := &faketk.View{}
	v := view.New(fv, view.ClientXDGShell)
	v.Map(image.Rect(0, 0, w, h))
	c := container.New(s.Arena, v)
	c.Pending.X, c.Pending.Y, c.Pending.Width, c.Pending.Height = x, y, w, h
	c.Current = c.Pending
	active := ws.Lookup(s.Arena, wsID)
	active.AddTiling(s.Arena, c)
	return c
}

func TestAddOutputRegistersUnderRoot(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)

	r := s.root()
	require.Contains(t, r.Outputs, out.NodeID)
	require.True(t, out.Enabled)
	require.NotZero(t, out.Manager.ActiveID, "Enable must create an active workspace")
}

func TestArrangeRootSyncsActiveWorkspaceGeometryToUsableArea(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 100, 0, 1920, 1080)

	s.ArrangeRoot()

	active := out.Manager.Active(s.Arena)
	require.Equal(t, out.UsableArea, active.Geometry)
}

func TestNodeAtCoordsFindsLeafUnderPoint(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	c := addMappedLeaf(s, out.Manager.ActiveID, 10, 10, 100, 100)

	got := s.nodeAtCoords(50, 50)
	require.Equal(t, c.NodeID, got)

	require.Zero(t, s.nodeAtCoords(500, 500), "no container covers that point")
}

func TestOutputAtCoordsResolvesByUsableArea(t *testing.T) {
	s := newTestServer()
	left := addEnabledOutput(s, "DP-1", 0, 0, 1000, 1000)
	right := addEnabledOutput(s, "DP-2", 1000, 0, 1000, 1000)

	require.Equal(t, left.NodeID, s.outputAtCoords(500, 500))
	require.Equal(t, right.NodeID, s.outputAtCoords(1500, 500))
}

func TestOnAppliedRebasesFocusFollowMouseOntoHoveredLeaf(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	c := addMappedLeaf(s, out.Manager.ActiveID, 0, 0, 200, 200)

	st := s.AddSeat()

	// First pass just enters the output (hovering empty space), so the
	// output-crossing branch of FocusFollowsMouse fires and primes
	// lastOutput/lastHovered; this keeps the second pass's "entered mapped
	// view" condition from being preempted by it.
	st.Cursor.PointerMotion(900, 900)
	s.onApplied(nil)

	st.Cursor.PointerMotion(50, 50)
	s.onApplied(nil)

	require.Equal(t, c.NodeID, st.Head(), "focus-follow-mouse should have entered the hovered mapped view")
}

func TestRemoveOutputEvacuatesWorkspacesToSurvivor_S6(t *testing.T) {
	s := newTestServer()
	dying := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	survivor := addEnabledOutput(s, "DP-2", 1920, 0, 1920, 1080)

	c := addMappedLeaf(s, dying.Manager.ActiveID, 0, 0, 100, 100)
	wsID := dying.Manager.ActiveID

	s.RemoveOutput(dying.NodeID, survivor)

	require.Nil(t, ws.LookupOutput(s.Arena, dying.NodeID), "the dying output node must be freed")
	require.Contains(t, survivor.Manager.Workspaces, wsID, "the evacuated workspace now belongs to the survivor")
	w := ws.Lookup(s.Arena, wsID)
	require.NotNil(t, w)
	require.Contains(t, w.Tiling, c.NodeID, "containers ride along with their workspace")

	r := s.root()
	require.NotContains(t, r.Outputs, dying.NodeID)
	require.Contains(t, r.Outputs, survivor.NodeID)
}

func TestRemoveOutputWithNoSurvivorLeavesWorkspaceForIdleCheck(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)

	s.RemoveOutput(out.NodeID, nil)

	require.Nil(t, ws.LookupOutput(s.Arena, out.NodeID))
	r := s.root()
	require.NotContains(t, r.Outputs, out.NodeID)
}

func TestRemoveOutputWithNoSiblingEvacuatesToFallback_S6(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	c := addMappedLeaf(s, out.Manager.ActiveID, 0, 0, 100, 100)
	wsID := out.Manager.ActiveID

	s.RemoveOutput(out.NodeID, nil)

	r := s.root()
	fallback := ws.LookupOutput(s.Arena, r.Fallback)
	require.NotNil(t, fallback)
	require.Contains(t, fallback.Manager.Workspaces, wsID, "the lone output's workspace must land on the fallback output")

	w := ws.Lookup(s.Arena, wsID)
	require.NotNil(t, w)
	require.Contains(t, w.Tiling, c.NodeID, "containers ride along to the fallback output")
}

func TestScratchpadHideDetachesAndShowRecentersAsFloater(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	target := ws.Lookup(s.Arena, out.Manager.ActiveID)
	c := addMappedLeaf(s, out.Manager.ActiveID, 0, 0, 200, 100)

	s.ScratchpadHide(c)
	require.True(t, s.InScratchpad(c))
	require.NotContains(t, target.Tiling, c.NodeID)
	require.Zero(t, c.Pending.Workspace)

	s.ScratchpadShow(c, target)
	require.False(t, s.InScratchpad(c))
	require.Contains(t, target.Floating, c.NodeID)
	require.Equal(t, target.NodeID, c.Pending.Workspace)
	require.Equal(t, target.Geometry.Min.X+(target.Geometry.Dx()-c.Pending.Width)/2, c.Pending.X)
}

func TestUnmapViewDetachesFromWorkspaceAndSeats(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	c := addMappedLeaf(s, out.Manager.ActiveID, 0, 0, 100, 100)
	w := ws.Lookup(s.Arena, out.Manager.ActiveID)

	st := s.AddSeat()
	st.SetFocus(c.NodeID)
	require.True(t, st.Contains(c.NodeID))

	s.UnmapView(c)

	require.NotContains(t, w.Tiling, c.NodeID)
	require.False(t, st.Contains(c.NodeID), "the seat's focus stack must drop the unmapped container")
	require.False(t, c.View.Mapped())
}

func TestIsVisibleHidesNonVisibleStackedSibling(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	active := out.Manager.Active(s.Arena)

	a := addMappedLeaf(s, active.NodeID, 0, 0, 100, 100)
	b := addMappedLeaf(s, active.NodeID, 0, 0, 100, 100)

	parent := container.New(s.Arena, nil)
	parent.Pending.Layout = container.LayoutStacked
	parent.Pending.Children = []node.ID{a.NodeID, b.NodeID}
	parent.Pending.FocusedInactiveChild = a.NodeID
	a.Pending.Parent = parent.NodeID
	b.Pending.Parent = parent.NodeID

	require.True(t, s.isVisible(a.NodeID))
	require.False(t, s.isVisible(b.NodeID))
}

func TestSetFullscreenDemotesPreviousWorkspaceHolder_P4(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	a := addMappedLeaf(s, out.Manager.ActiveID, 0, 0, 100, 100)
	b := addMappedLeaf(s, out.Manager.ActiveID, 0, 0, 100, 100)

	s.SetFullscreen(a, container.FullscreenWorkspace)
	require.Equal(t, container.FullscreenWorkspace, a.Pending.Fullscreen)

	w := ws.Lookup(s.Arena, out.Manager.ActiveID)
	require.Equal(t, a.NodeID, w.Fullscreen)

	s.SetFullscreen(b, container.FullscreenWorkspace)
	require.Equal(t, container.FullscreenNone, a.Pending.Fullscreen, "promoting b must demote a first")
	require.Equal(t, container.FullscreenWorkspace, b.Pending.Fullscreen)
	require.Equal(t, b.NodeID, w.Fullscreen)
}

func TestSetFullscreenDemotesPreviousGlobalHolderAcrossOutputs_P4(t *testing.T) {
	s := newTestServer()
	out1 := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	out2 := addEnabledOutput(s, "DP-2", 1920, 0, 1920, 1080)
	a := addMappedLeaf(s, out1.Manager.ActiveID, 0, 0, 100, 100)
	b := addMappedLeaf(s, out2.Manager.ActiveID, 0, 0, 100, 100)

	s.SetFullscreen(a, container.FullscreenGlobal)
	require.Equal(t, container.FullscreenGlobal, a.Pending.Fullscreen)
	require.True(t, s.Global.GlobalFullscreenActive())
	require.Equal(t, a.NodeID, s.Global.GlobalFullscreenHolder())

	s.SetFullscreen(b, container.FullscreenGlobal)
	require.Equal(t, container.FullscreenNone, a.Pending.Fullscreen, "promoting b must demote a first, even on another output")
	require.Equal(t, container.FullscreenGlobal, b.Pending.Fullscreen)
	require.Equal(t, b.NodeID, s.Global.GlobalFullscreenHolder())
}

func TestSetFullscreenNoneDemotesWorkspaceHolder(t *testing.T) {
	s := newTestServer()
	out := addEnabledOutput(s, "DP-1", 0, 0, 1920, 1080)
	a := addMappedLeaf(s, out.Manager.ActiveID, 5, 5, 100, 100)

	s.SetFullscreen(a, container.FullscreenWorkspace)
	s.SetFullscreen(a, container.FullscreenNone)

	require.Equal(t, container.FullscreenNone, a.Pending.Fullscreen)
	require.Equal(t, 5, a.Pending.X, "demoting must restore the pre-fullscreen geometry")
	w := ws.Lookup(s.Arena, out.Manager.ActiveID)
	require.Zero(t, w.Fullscreen)
}
