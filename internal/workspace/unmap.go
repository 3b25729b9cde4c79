package workspace

import (
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/scene"
)

// UnmapContainer orchestrates the client-unmap side of container lifecycle
// (spec §3 Container: "begins destroy when the client unmaps or the view is
// closed"): the view is marked unmapped, the container is pulled out of its
// workspace's tiling/floating list, its scene node is reparented into the
// staging tree so it stops rendering immediately instead of waiting for the
// next apply, and the node is put into destroying state. If a transaction
// instruction is still in flight for this node, the arena keeps it alive
// until that instruction's Unref brings txnrefs to zero; otherwise it frees
// immediately.
func UnmapContainer(a *node.Arena, g *scene.Global, c *container.Container) {
	if c.View != nil {
		c.View.Unmap()
	}

	if w := Lookup(a, c.Pending.Workspace); w != nil {
		w.RemoveContainer(a, c.NodeID)
		if w.Fullscreen == c.NodeID {
			w.Fullscreen = 0
		}
	}
	c.Pending.Workspace = 0

	if c.SceneTree != nil {
		g.Hide(c.SceneTree)
	}

	n := a.Get(c.NodeID)
	if n == nil {
		return
	}
	n.BeginDestroy()
	if n.TxnRefs == 0 {
		a.Unref(n)
	}
}
