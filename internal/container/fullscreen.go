package container

import "github.com/wsmwm/wsm/internal/node"

// savedGeometry remembers the pre-fullscreen rectangle so FullscreenDisable
// can restore it bit-exact (law L3).
type savedGeometry struct {
	x, y, w, h int
}

var savedByNode = map[node.ID]savedGeometry{}

// FullscreenEnable promotes c to the given fullscreen mode, resizing it to
// outputRect (the output's full extent) and saving its prior geometry. The
// caller is responsible for scene re-parenting (into workspace.fullscreen
// or scene.fullscreen_global) and for the mutual-exclusion bookkeeping of
// invariant 2 (demoting any other fullscreen container first).
func FullscreenEnable(a *node.Arena, c *Container, mode FullscreenMode, outputX, outputY, outputW, outputH int) {
	savedByNode[c.NodeID] = savedGeometry{c.Pending.X, c.Pending.Y, c.Pending.Width, c.Pending.Height}
	c.Pending.Fullscreen = mode
	c.Pending.X = outputX
	c.Pending.Y = outputY
	c.Pending.Width = outputW
	c.Pending.Height = outputH
	markDirty(a, c.NodeID)
}

// FullscreenDisable demotes c back to FullscreenNone and restores the
// geometry saved by FullscreenEnable, bit-exact (law L3). If no saved
// geometry exists (enable was never called, or state was lost) the
// container's current geometry is left untouched.
func FullscreenDisable(a *node.Arena, c *Container) {
	c.Pending.Fullscreen = FullscreenNone
	if g, ok := savedByNode[c.NodeID]; ok {
		c.Pending.X = g.x
		c.Pending.Y = g.y
		c.Pending.Width = g.w
		c.Pending.Height = g.h
		delete(savedByNode, c.NodeID)
	}
	markDirty(a, c.NodeID)
}

// MakeFloating detaches c from its tiling parent's children list and marks
// it as having no tiling layout parent. The geometry it had while tiled is
// left as its floating position (the caller typically overrides X/Y/Width/
// Height right after, e.g. to center it).
func MakeFloating(a *node.Arena, parent *Container, c *Container) {
	if parent != nil {
		parent.Pending.Children = removeID(parent.Pending.Children, c.NodeID)
		markDirty(a, parent.NodeID)
	}
	c.Pending.Parent = 0
	markDirty(a, c.NodeID)
}

// MakeTiling attaches c as a tiling child of parent with an equal share of
// the other children's space, then re-arranges parent so c's geometry
// becomes the parent's layout allocation -- never any remembered
// pre-floating value (law L2).
func MakeTiling(a *node.Arena, parent *Container, c *Container) {
	c.Pending.Parent = parent.NodeID
	if !containsID(parent.Pending.Children, c.NodeID) {
		parent.Pending.Children = append(parent.Pending.Children, c.NodeID)
	}
	equalizeFractions(a, parent)
	Arrange(a, parent)
	markDirty(a, parent.NodeID)
	markDirty(a, c.NodeID)
}

func equalizeFractions(a *node.Arena, parent *Container) {
	n := len(parent.Pending.Children)
	if n == 0 {
		return
	}
	share := 1.0 / float64(n)
	for _, id := range parent.Pending.Children {
		if child := Lookup(a, id); child != nil {
			child.Pending.Fraction = share
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

func containsID(ids []node.ID, target node.ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
