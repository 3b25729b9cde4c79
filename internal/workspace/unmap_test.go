package workspace

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/scene"
	"github.com/wsmwm/wsm/internal/toolkit/faketk"
	"github.com/wsmwm/wsm/internal/view"
)

func TestUnmapContainerDetachesAndMarksDestroying(t *testing.T) {
	a, g := setup(t)
	out := New(a, &faketk.Output{NameStr: "OUT-1"}, g)
	w := New(a, "1", out.NodeID, out.Scene.Layer(scene.OutLayerTiling))

	v := view.New(&faketk.View{}, view.ClientXDGShell)
	v.Map(image.Rect(0, 0, 100, 100))
	c := container.New(a, v)
	c.SceneTree = out.Scene.Layer(scene.OutLayerTiling).CreateTree()
	w.AddTiling(a, c)

	UnmapContainer(a, g, c)

	require.False(t, v.Mapped())
	require.NotContains(t, w.Tiling, c.NodeID)
	require.False(t, a.Live(c.NodeID), "with no in-flight transaction, unref frees the node immediately")
}

func TestUnmapContainerClearsWorkspaceFullscreenHolder(t *testing.T) {
	a, g := setup(t)
	out := New(a, &faketk.Output{NameStr: "OUT-1"}, g)
	w := New(a, "1", out.NodeID, out.Scene.Layer(scene.OutLayerTiling))

	c := container.New(a, nil)
	w.AddTiling(a, c)
	w.PromoteFullscreen(a, c, image.Rect(0, 0, 1920, 1080))
	require.Equal(t, c.NodeID, w.Fullscreen)

	UnmapContainer(a, g, c)
	require.Zero(t, w.Fullscreen, "the departing container must not leave a dangling fullscreen claim")
}

func TestUnmapContainerSurvivesInFlightTransaction(t *testing.T) {
	a, g := setup(t)
	out := New(a, &faketk.Output{NameStr: "OUT-1"}, g)
	w := New(a, "1", out.NodeID, out.Scene.Layer(scene.OutLayerTiling))
	c := container.New(a, nil)
	w.AddTiling(a, c)

	n := a.Get(c.NodeID)
	// Simulate the node being referenced by both a queued (in-flight) and a
	// freshly-accumulated pending transaction instruction at once (spec
	// §4.3.3/boundary B3): two outstanding refs.
	n.Ref()
	n.Ref()

	UnmapContainer(a, g, c)
	require.True(t, a.Live(c.NodeID), "a node with outstanding txn refs must not free early")
	require.True(t, n.Destroying)
	require.Equal(t, 2, n.TxnRefs)

	a.Unref(n)
	require.True(t, a.Live(c.NodeID), "the other instruction's ref still holds the node")
	a.Unref(n)
	require.False(t, a.Live(c.NodeID), "the last outstanding instruction's unref finally frees it")
}
