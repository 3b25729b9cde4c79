package cursor

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit/faketk"
	ws "github.com/wsmwm/wsm/internal/workspace"
	"github.com/wsmwm/wsm/internal/view"
)

type fakeHost struct {
	dirty      []node.ID
	commitCall int
}

func (h *fakeHost) MarkDirty(id node.ID)  { h.dirty = append(h.dirty, id) }
func (h *fakeHost) CommitDirtyClient()    { h.commitCall++ }

func newFloater(a *node.Arena) *container.Container {
	v := view.New(&faketk.View{}, view.ClientXDGShell)
	v.Map(image.Rect(0, 0, 100, 100))
	c := container.New(a, v)
	c.Pending.X, c.Pending.Y, c.Pending.Width, c.Pending.Height = 100, 100, 100, 100
	return c
}

func TestMoveFloatingTracksPointerDelta(t *testing.T) {
	a := node.NewArena()
	c := newFloater(a)
	host := &fakeHost{}
	m := NewMachine(host)
	m.PointerMotion(10, 10)

	op := NewMoveFloating(m, a, c, nil)
	m.Enter(op)

	m.PointerMotion(30, 25)
	require.Equal(t, 120, c.Pending.X)
	require.Equal(t, 115, c.Pending.Y)
	require.Greater(t, host.commitCall, 0)
}

func TestMoveFloatingEndsOnAllButtonsReleased(t *testing.T) {
	a := node.NewArena()
	c := newFloater(a)
	host := &fakeHost{}
	m := NewMachine(host)
	op := NewMoveFloating(m, a, c, nil)
	m.Enter(op)

	m.Button(ButtonLeft, true)
	m.Button(ButtonLeft, false)

	_, isDefault := m.Op().(*DefaultOp)
	require.True(t, isDefault, "releasing the last button must return to Default")
}

func TestMoveFloatingReassignsOutputOnRelease_S2(t *testing.T) {
	a := node.NewArena()
	c := newFloater(a)
	host := &fakeHost{}
	m := NewMachine(host)

	srcWs := ws.New(a, "1", 0, nil)
	srcWs.AddFloating(a, c)

	dstOut := &ws.Output{UsableArea: image.Rect(1920, 0, 3840, 1080)}
	n := a.Create(node.VariantOutput, dstOut)
	dstOut.NodeID = n.ID
	dstWs := ws.New(a, "1", dstOut.NodeID, nil)
	dstOut.Manager.Workspaces = []node.ID{dstWs.NodeID}
	dstOut.Manager.ActiveID = dstWs.NodeID

	locator := func(x, y float64) *ws.Output { return dstOut }
	op := NewMoveFloating(m, a, c, locator)
	m.Enter(op)

	m.PointerMotion(1950, 50)
	m.Button(ButtonLeft, true)
	m.Button(ButtonLeft, false)

	require.Equal(t, dstWs.NodeID, c.Pending.Workspace)
	require.Contains(t, dstWs.Floating, c.NodeID)
	require.NotContains(t, srcWs.Floating, c.NodeID)
}

func TestResizeFloatingRightEdgeClampsToMinimum(t *testing.T) {
	a := node.NewArena()
	c := newFloater(a)
	host := &fakeHost{}
	m := NewMachine(host)
	op := NewResizeFloating(m, c, EdgeRight)
	m.Enter(op)

	m.PointerMotion(-500, 0)
	require.Equal(t, minFloatingSize, c.Pending.Width)
	require.Equal(t, 100, c.Pending.X, "right-edge resize must not move the origin")
}

func TestResizeFloatingLeftEdgeMovesOriginAndKeepsFarEdge(t *testing.T) {
	a := node.NewArena()
	c := newFloater(a)
	host := &fakeHost{}
	m := NewMachine(host)
	op := NewResizeFloating(m, c, EdgeLeft)
	m.Enter(op)

	m.PointerMotion(20, 0)
	require.Equal(t, 120, c.Pending.X)
	require.Equal(t, 80, c.Pending.Width)
	require.Equal(t, 200, c.Pending.X+c.Pending.Width, "far edge stays put")
}

func TestConstraintClampsToRegion(t *testing.T) {
	cst := &Constraint{Region: image.Rect(0, 0, 100, 100)}
	x, y := cst.Clamp(150, -10)
	require.Equal(t, 100.0, x)
	require.Equal(t, 0.0, y)
}

func TestConstraintLockPinsToCenter(t *testing.T) {
	cst := &Constraint{Region: image.Rect(0, 0, 100, 100), Locked: true}
	x, y := cst.Clamp(99, 1)
	require.Equal(t, 50.0, x)
	require.Equal(t, 50.0, y)
}

func TestTouchDownDrivesSimulatedPointerWhenSurfaceRejectsTouch(t *testing.T) {
	host := &fakeHost{}
	m := NewMachine(host)
	backend := &faketk.View{}
	target := TouchTarget{AcceptsTouch: false, AcceptsPointer: true, Backend: backend}

	m.TouchDown(TouchID(1), 40, 40, target)
	require.Equal(t, 40.0, m.X)
	require.Equal(t, []bool{true}, backend.SynthesizedButtons, "touch-down on a pointer-only surface synthesizes a left-button press")

	m.TouchMotion(TouchID(1), 60, 70)
	require.Equal(t, 60.0, m.X)
	require.Equal(t, 70.0, m.Y)

	m.TouchUp(TouchID(1))
	require.False(t, m.hasSimulatedTouch)
	require.Equal(t, []bool{true, false}, backend.SynthesizedButtons, "touch-up releases the synthesized button")
}

func TestTouchDownDoesNotSimulateWhenSurfaceAcceptsTouch(t *testing.T) {
	host := &fakeHost{}
	m := NewMachine(host)
	backend := &faketk.View{}
	target := TouchTarget{AcceptsTouch: true, AcceptsPointer: true, Backend: backend}

	m.TouchDown(TouchID(1), 40, 40, target)
	require.False(t, m.hasSimulatedTouch, "a surface that accepts touch must not get pointer simulation")
	require.Empty(t, backend.SynthesizedButtons)
}

func TestTargetFromViewReflectsCapabilities(t *testing.T) {
	v := view.New(&faketk.View{}, view.ClientXDGShell)
	v.AcceptsTouch = false

	target := TargetFromView(v)
	require.False(t, target.AcceptsTouch)
	require.True(t, target.AcceptsPointer)
	require.Equal(t, v.Backend, target.Backend)

	require.Equal(t, TouchTarget{}, TargetFromView(nil))
}
