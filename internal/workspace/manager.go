package workspace

import (
	"image"

	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/scene"
	"github.com/wsmwm/wsm/internal/toolkit"
)

// Manager is the set of a single output's workspaces plus the active one
// (spec §3 Output: "exactly one WorkspaceManager").
type Manager struct {
	Workspaces []node.ID
	ActiveID   node.ID
}

// SetActive switches the manager's active workspace, enforcing invariant 4
// (active_workspace is always a member of the output's workspace list).
func (m *Manager) SetActive(a *node.Arena, id node.ID) bool {
	if !containsID(m.Workspaces, id) {
		return false
	}
	m.ActiveID = id
	if n := a.Get(id); n != nil {
		a.MarkDirty(n)
	}
	return true
}

// Active returns the active *Workspace, or nil if none/destroyed.
func (m *Manager) Active(a *node.Arena) *Workspace {
	return Lookup(a, m.ActiveID)
}

func containsID(ids []node.ID, target node.ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// Output wraps a toolkit output (spec §3 Output).
type Output struct {
	NodeID node.ID

	Backend toolkit.OutputBackend
	Manager Manager

	// UsableArea is the area left after layer-shell exclusive reservations.
	UsableArea image.Rectangle

	// LayoutX, LayoutY is this output's origin in the shared layout
	// coordinate space (root.output_layout).
	LayoutX, LayoutY int

	Scene *scene.Output

	Enabled bool
}

// New creates an Output node wrapping backend, with its ten per-output
// scene trees created under g.
func New(a *node.Arena, backend toolkit.OutputBackend, g *scene.Global) *Output {
	o := &Output{Backend: backend}
	n := a.Create(node.VariantOutput, o)
	o.NodeID = n.ID
	o.Scene = scene.NewOutput(g)
	return o
}

// LookupOutput resolves a node.ID to its *Output payload.
func LookupOutput(a *node.Arena, id node.ID) *Output {
	n := a.Get(id)
	if n == nil {
		return nil
	}
	o, _ := n.Payload.(*Output)
	return o
}

// Enable marks the output enabled after its first successful mode commit
// and ensures it has at least one empty workspace (spec §3 Output
// Lifecycle: "created on new-output event, enabled after first successful
// mode commit").
func (o *Output) Enable(a *node.Arena) {
	o.Enabled = true
	if len(o.Manager.Workspaces) == 0 {
		ws := New(a, "1", o.NodeID, o.Scene.Layer(scene.OutLayerTiling))
		o.Manager.Workspaces = append(o.Manager.Workspaces, ws.NodeID)
		o.Manager.SetActive(a, ws.NodeID)
	}
}

// Reposition updates the output's layout origin and repositions its scene
// trees (spec §4.1 "re-parented each arrange cycle... offset by the
// output's layout origin").
func (o *Output) Reposition(x, y int) {
	o.LayoutX, o.LayoutY = x, y
	o.Scene.Reposition(x, y)
}
