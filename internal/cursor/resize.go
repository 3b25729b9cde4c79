package cursor

import (
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
)

// Edge is a bitset of which sides of the container a ResizeFloating op is
// dragging (spec §4.5 ResizeFloating).
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

const minFloatingSize = 50

// ResizeFloating drags one or more edges of a floating container, clamped
// to a minimum size (spec §4.5 table).
type ResizeFloating struct {
	Base

	m    *Machine
	c    *container.Container
	edge Edge

	startX, startY                     float64
	startGeomX, startGeomY, startW, startH int
}

func NewResizeFloating(m *Machine, c *container.Container, edge Edge) *ResizeFloating {
	return &ResizeFloating{
		m: m, c: c, edge: edge,
		startX: m.X, startY: m.Y,
		startGeomX: c.Pending.X, startGeomY: c.Pending.Y,
		startW: c.Pending.Width, startH: c.Pending.Height,
	}
}

func (op *ResizeFloating) PointerMotion(x, y float64) {
	dx := int(x - op.startX)
	dy := int(y - op.startY)

	if op.edge&EdgeRight != 0 {
		op.c.Pending.Width = clampMin(op.startW+dx, minFloatingSize)
	}
	if op.edge&EdgeBottom != 0 {
		op.c.Pending.Height = clampMin(op.startH+dy, minFloatingSize)
	}
	if op.edge&EdgeLeft != 0 {
		w := clampMin(op.startW-dx, minFloatingSize)
		op.c.Pending.X = op.startGeomX + (op.startW - w)
		op.c.Pending.Width = w
	}
	if op.edge&EdgeTop != 0 {
		h := clampMin(op.startH-dy, minFloatingSize)
		op.c.Pending.Y = op.startGeomY + (op.startH - h)
		op.c.Pending.Height = h
	}

	op.m.Host.MarkDirty(op.c.NodeID)
	op.m.Host.CommitDirtyClient()
}

func (op *ResizeFloating) Button(btn Button, pressed bool) {
	if !pressed && op.m.PressedCount() == 0 {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}

func (op *ResizeFloating) Unref(id node.ID) {
	if id == op.c.NodeID {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}
