// Package scene implements the layered scene-graph stacking model of spec
// §4.1: the global Z-ordered stack, the per-output trees re-parented into
// it each arrange cycle, the fullscreen disable rules, and the staging
// tree used to "hide without destroy".
//
// The traversal/push-pop shape here is grounded on gioui.org's
// io/input/router.go collectHandlers walk: a flat ordered list of layers
// walked top-to-bottom, each a toolkit.SceneTree handle the core only
// enables/disables/reparents, never inspects.
package scene

import (
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit"
)

// GlobalLayer indexes the global, cross-output Z-order (spec §4.1).
type GlobalLayer int

const (
	LayerShellBackground GlobalLayer = iota
	LayerShellBottom
	LayerTiling
	LayerFloating
	LayerShellTop
	LayerFullscreen
	LayerFullscreenGlobal
	LayerUnmanaged // XWayland override-redirect
	LayerShellOverlay
	LayerPopup
	LayerSeat // drag icons
	LayerSessionLock
	numGlobalLayers
)

// OutputLayer indexes the ten per-output trees, bottom to top (spec §3
// Output).
type OutputLayer int

const (
	OutLayerShellBackground OutputLayer = iota
	OutLayerShellBottom
	OutLayerTiling
	OutLayerFullscreen
	OutLayerShellTop
	OutLayerShellOverlay
	OutLayerSessionLock
	OutLayerOSD
	OutLayerWaterMark
	OutLayerBlackScreen
	numOutputLayers
)

// Global owns the root scene: the ordered global layer trees, and the
// staging tree used to park nodes that must exist but not render.
type Global struct {
	layers  [numGlobalLayers]toolkit.SceneTree
	staging toolkit.SceneTree

	// fullscreenGlobalActive tracks whether a fullscreen_global container
	// exists anywhere in the scene (invariant 2: at most one).
	fullscreenGlobalActive bool

	// fullscreenGlobalHolder is the container currently holding the single
	// fullscreen_global slot, zero if none.
	fullscreenGlobalHolder node.ID
}

// NewGlobal builds the global layer stack by creating one child tree per
// layer under root, in Z order.
func NewGlobal(root toolkit.SceneTree) *Global {
	g := &Global{}
	for i := range g.layers {
		g.layers[i] = root.CreateTree()
	}
	g.staging = root.CreateTree()
	g.staging.SetEnabled(false)
	return g
}

// Layer returns the tree for a global layer.
func (g *Global) Layer(l GlobalLayer) toolkit.SceneTree {
	return g.layers[l]
}

// Staging returns the tree used to park detached/hidden nodes.
func (g *Global) Staging() toolkit.SceneTree {
	return g.staging
}

// Hide reparents a node into the staging tree: the mechanism for
// "hide without destroy" (spec §4.1).
func (g *Global) Hide(n toolkit.SceneNode) {
	n.Reparent(g.staging)
	n.SetEnabled(false)
}

// SetGlobalFullscreen toggles the scene into/out of global-fullscreen mode.
// While active, every non-overlay, non-popup, non-session-lock, non-seat
// layer is disabled and only fullscreen_global (plus those four) render.
func (g *Global) SetGlobalFullscreen(active bool) {
	g.fullscreenGlobalActive = active
	for l := GlobalLayer(0); l < numGlobalLayers; l++ {
		switch l {
		case LayerFullscreenGlobal, LayerShellOverlay, LayerPopup, LayerSeat, LayerSessionLock:
			g.layers[l].SetEnabled(true)
		default:
			g.layers[l].SetEnabled(!active)
		}
	}
}

// GlobalFullscreenActive reports whether a fullscreen_global container is
// currently promoted (invariant 2).
func (g *Global) GlobalFullscreenActive() bool {
	return g.fullscreenGlobalActive
}

// PromoteGlobalFullscreen claims the scene's single fullscreen_global slot
// for id, enforcing invariant 2 across the whole scene (not just one
// output). It returns the previously-promoted node id, zero if none, so the
// caller can demote that container's own fullscreen state to match.
func (g *Global) PromoteGlobalFullscreen(id node.ID) node.ID {
	prev := g.fullscreenGlobalHolder
	g.fullscreenGlobalHolder = id
	g.SetGlobalFullscreen(true)
	return prev
}

// DemoteGlobalFullscreen releases the fullscreen_global slot if id holds it.
func (g *Global) DemoteGlobalFullscreen(id node.ID) {
	if g.fullscreenGlobalHolder != id {
		return
	}
	g.fullscreenGlobalHolder = 0
	g.SetGlobalFullscreen(false)
}

// GlobalFullscreenHolder returns the container currently holding the
// fullscreen_global slot, zero if none.
func (g *Global) GlobalFullscreenHolder() node.ID {
	return g.fullscreenGlobalHolder
}

// Output owns the ten per-output trees and tracks whether this output is
// currently showing a workspace-fullscreen container, which disables every
// layer below OutLayerFullscreen on this output alone.
type Output struct {
	layers             [numOutputLayers]toolkit.SceneTree
	workspaceFullscreen bool
}

// NewOutput creates the ten per-output trees as children of the given
// global layer parents, in the order spec §3 mandates.
func NewOutput(g *Global) *Output {
	o := &Output{}
	o.layers[OutLayerShellBackground] = g.Layer(LayerShellBackground).CreateTree()
	o.layers[OutLayerShellBottom] = g.Layer(LayerShellBottom).CreateTree()
	o.layers[OutLayerTiling] = g.Layer(LayerTiling).CreateTree()
	o.layers[OutLayerFullscreen] = g.Layer(LayerFullscreen).CreateTree()
	o.layers[OutLayerShellTop] = g.Layer(LayerShellTop).CreateTree()
	o.layers[OutLayerShellOverlay] = g.Layer(LayerShellOverlay).CreateTree()
	o.layers[OutLayerSessionLock] = g.Layer(LayerSessionLock).CreateTree()
	// OSD, water-mark and black-screen are compositor-local overlays with
	// no cross-output global counterpart. They are created as nested
	// children of this output's session_lock tree (OSD under session_lock,
	// water_mark under OSD, black_screen under water_mark).
	o.layers[OutLayerOSD] = o.layers[OutLayerSessionLock].CreateTree()
	o.layers[OutLayerWaterMark] = o.layers[OutLayerOSD].CreateTree()
	o.layers[OutLayerBlackScreen] = o.layers[OutLayerWaterMark].CreateTree()
	return o
}

// Layer returns the tree for a per-output layer.
func (o *Output) Layer(l OutputLayer) toolkit.SceneTree {
	return o.layers[l]
}

// Reposition offsets every per-output tree by the output's layout origin,
// the "re-parented each arrange cycle into the matching global slot offset
// by the output's layout origin" rule of spec §4.1.
func (o *Output) Reposition(lx, ly int) {
	for _, l := range o.layers {
		l.SetPosition(lx, ly)
	}
}

// SetWorkspaceFullscreen toggles this output's layers for a workspace
// becoming fullscreen: all lower layers on the workspace's output are
// disabled and the fullscreen tree is enabled instead (spec §4.1). Layers
// above fullscreen (shell_top, shell_overlay, session_lock, OSD, ...)
// remain untouched since they must still render over fullscreen content.
func (o *Output) SetWorkspaceFullscreen(active bool) {
	o.workspaceFullscreen = active
	o.layers[OutLayerShellBackground].SetEnabled(!active)
	o.layers[OutLayerShellBottom].SetEnabled(!active)
	o.layers[OutLayerTiling].SetEnabled(!active)
	o.layers[OutLayerFullscreen].SetEnabled(true)
}

// WorkspaceFullscreenActive reports this output's fullscreen disable state.
func (o *Output) WorkspaceFullscreenActive() bool {
	return o.workspaceFullscreen
}
