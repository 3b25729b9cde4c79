package transaction

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit/faketk"
	"github.com/wsmwm/wsm/internal/view"
)

func newMappedContainer(a *node.Arena, w, h int) (*container.Container, *view.View, *faketk.View) {
	fv := &faketk.View{}
	v := view.New(fv, view.ClientXDGShell)
	v.Map(image.Rect(0, 0, w, h))
	c := container.New(a, v)
	c.Pending.Width, c.Pending.Height = w, h
	return c, v, fv
}

func TestFullscreenToggleEndToEnd_S1(t *testing.T) {
	a := node.NewArena()
	c, _, fv := newMappedContainer(a, 960, 1080)

	container.FullscreenEnable(a, c, container.FullscreenWorkspace, 0, 0, 1920, 1080)

	e := NewEngine(a)
	ft := &fakeTimer{}
	e.SetTimer(ft)
	e.CommitDirty()

	require.NotEmpty(t, fv.Configures, "a configure must be sent for the size change")
	require.True(t, ft.armed, "engine should be waiting for the ack")

	// Client acks the configure.
	require.True(t, e.ViewReadyBySerial(c.NodeID, uint32(fv.Serial)))
	require.Equal(t, 1920, c.Current.Width)
	require.Equal(t, 1080, c.Current.Height)
	require.Equal(t, 0, c.Current.X)
	require.Equal(t, 0, c.Current.Y)
}

func TestTransactionTimeout_S3(t *testing.T) {
	a := node.NewArena()
	c, _, fv := newMappedContainer(a, 200, 200)

	e := NewEngine(a)
	ft := &fakeTimer{}
	e.SetTimer(ft)

	c.Pending.Width, c.Pending.Height = 400, 400
	n := a.Get(c.NodeID)
	a.MarkDirty(n)
	e.CommitDirty()

	require.NotEmpty(t, fv.Configures)
	require.NotEqual(t, 400, c.Current.Width, "must not apply before ack or timeout")

	// The client never acks; the timer fires instead.
	ft.Fire()
	require.Equal(t, 400, c.Current.Width)
	require.Equal(t, 400, c.Current.Height)
	require.NotNil(t, fv.Saved, "the view keeps a saved buffer across the timeout")
}

func TestNoConfigureWhenSizeUnchanged_B1(t *testing.T) {
	a := node.NewArena()
	c, _, fv := newMappedContainer(a, 400, 300)

	e := NewEngine(a)
	ft := &fakeTimer{}
	e.SetTimer(ft)

	// Mark dirty without changing size.
	n := a.Get(c.NodeID)
	a.MarkDirty(n)
	e.CommitDirty()

	require.Empty(t, fv.Configures, "unchanged size must not trigger a configure")
	require.False(t, ft.armed, "instruction should be ready immediately")
	require.Equal(t, 400, c.Current.Width)
}

func TestAtMostOneQueuedTransaction_P3(t *testing.T) {
	a := node.NewArena()
	c, _, _ := newMappedContainer(a, 200, 200)
	e := NewEngine(a)
	ft := &fakeTimer{}
	e.SetTimer(ft)

	c.Pending.Width = 300
	a.MarkDirty(a.Get(c.NodeID))
	e.CommitDirty()
	require.NotEmpty(t, e.QueuedID())

	// A second dirty batch arrives while the first is still waiting: it
	// must accumulate into pending, not start a second in-flight txn.
	c.Pending.Width = 500
	a.MarkDirty(a.Get(c.NodeID))
	e.CommitDirty()
	require.True(t, e.HasPending())

	ft.Fire()
	require.Equal(t, 300, c.Current.Width, "first transaction applies first")
	// The pending transaction should commit automatically once the first
	// finishes (spec §4.3.8's final step), arming the timer again.
	require.True(t, ft.armed, "the accumulated pending transaction commits immediately")
	ft.Fire()
	require.Equal(t, 500, c.Current.Width)
}

func TestTxnRefsMatchLiveInstructions_P2(t *testing.T) {
	a := node.NewArena()
	c, _, _ := newMappedContainer(a, 200, 200)
	e := NewEngine(a)
	ft := &fakeTimer{}
	e.SetTimer(ft)

	c.Pending.Width = 300
	n := a.Get(c.NodeID)
	a.MarkDirty(n)
	e.CommitDirty()
	require.Equal(t, 1, n.TxnRefs)

	ft.Fire()
	require.Equal(t, 0, n.TxnRefs)
}

func TestXWaylandAckByGeometry_B2(t *testing.T) {
	a := node.NewArena()
	fv := &faketk.View{}
	v := view.New(fv, view.ClientXWayland)
	v.Map(image.Rect(0, 0, 100, 100))
	c := container.New(a, v)
	c.Pending.Width, c.Pending.Height = 200, 150
	a.MarkDirty(a.Get(c.NodeID))

	e := NewEngine(a)
	ft := &fakeTimer{}
	e.SetTimer(ft)
	e.CommitDirty()

	require.True(t, e.ViewReadyByGeometry(c.NodeID, 0, 0, 200, 150))
	require.Equal(t, 200, c.Current.Width)
}

func TestApplyUpdatesForeignToplevelHandle(t *testing.T) {
	a := node.NewArena()
	c, _, _ := newMappedContainer(a, 200, 200)
	c.Pending.Width, c.Pending.Height = 300, 300
	c.Pending.Title = "Terminal"
	c.Pending.Fullscreen = container.FullscreenWorkspace
	a.MarkDirty(a.Get(c.NodeID))

	e := NewEngine(a)
	ft := &fakeTimer{}
	e.SetTimer(ft)
	e.CommitDirty()
	require.True(t, e.ViewReadyBySerial(c.NodeID, 1))

	require.NotNil(t, c.View.Foreign)
	require.Equal(t, "Terminal", c.View.Foreign.Title)
	require.NotZero(t, c.View.Foreign.State&view.FTFullscreen)
}
