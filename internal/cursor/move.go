package cursor

import (
	"image"

	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	ws "github.com/wsmwm/wsm/internal/workspace"
)

// OutputLocator resolves the output under a point, for floater-drag output
// reassignment (spec §4.5 MoveFloating, scenario S2).
type OutputLocator func(x, y float64) *ws.Output

// MoveFloating repositions a floating container to track the pointer and,
// on release, reassigns it to the workspace of whichever output the
// pointer ends up over (spec §4.5 table, scenario S2).
type MoveFloating struct {
	Base

	m  *Machine
	c  *container.Container
	a  *node.Arena
	ol OutputLocator

	startX, startY     float64
	startGeomX, geomY0 int
}

// NewMoveFloating begins a move gesture anchored at the current pointer
// position, per container's current geometry.
func NewMoveFloating(m *Machine, a *node.Arena, c *container.Container, ol OutputLocator) *MoveFloating {
	return &MoveFloating{
		m: m, c: c, a: a, ol: ol,
		startX: m.X, startY: m.Y,
		startGeomX: c.Pending.X, geomY0: c.Pending.Y,
	}
}

func (op *MoveFloating) PointerMotion(x, y float64) {
	op.c.Pending.X = op.startGeomX + int(x-op.startX)
	op.c.Pending.Y = op.geomY0 + int(y-op.startY)
	op.m.Host.MarkDirty(op.c.NodeID)
	op.m.Host.CommitDirtyClient()
}

func (op *MoveFloating) Button(btn Button, pressed bool) {
	if !pressed && op.m.PressedCount() == 0 {
		op.finish()
		op.m.Enter(&DefaultOp{m: op.m})
	}
}

func (op *MoveFloating) Unref(id node.ID) {
	if id == op.c.NodeID {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}

func (op *MoveFloating) End() {}

// finish reassigns the container to the output (and that output's active
// workspace) under the final pointer position, remapping its geometry into
// the new output's coordinate space.
func (op *MoveFloating) finish() {
	if op.ol == nil {
		return
	}
	dst := op.ol(op.m.X, op.m.Y)
	if dst == nil {
		return
	}
	active := dst.Manager.Active(op.a)
	if active == nil || active.NodeID == op.c.Pending.Workspace {
		op.m.Host.MarkDirty(op.c.NodeID)
		return
	}

	srcWorkspace := ws.Lookup(op.a, op.c.Pending.Workspace)
	if srcWorkspace != nil {
		srcWorkspace.RemoveContainer(op.a, op.c.NodeID)
	}

	geom := image.Rect(op.c.Pending.X, op.c.Pending.Y, op.c.Pending.X+op.c.Pending.Width, op.c.Pending.Y+op.c.Pending.Height)
	// Keep the container's position relative to its origin output's usable
	// area so it lands in a sensible spot on the destination output too.
	offsetX := geom.Min.X
	offsetY := geom.Min.Y
	if srcWorkspace != nil {
		if srcOut := ws.LookupOutput(op.a, srcWorkspace.OutputID); srcOut != nil {
			offsetX -= srcOut.UsableArea.Min.X
			offsetY -= srcOut.UsableArea.Min.Y
		}
	}

	op.c.Pending.Workspace = active.NodeID
	op.c.Pending.X = dst.UsableArea.Min.X + offsetX%max1(dst.UsableArea.Dx())
	op.c.Pending.Y = dst.UsableArea.Min.Y + offsetY%max1(dst.UsableArea.Dy())
	active.AddFloating(op.a, op.c)
	op.m.Host.MarkDirty(op.c.NodeID)
}

func max1(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}
