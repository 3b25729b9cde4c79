package container

import (
	"image"

	"github.com/wsmwm/wsm/internal/node"
)

// Lookup resolves a node.ID to its *Container payload. Returns nil if the
// id doesn't name a live container (e.g. it names a Workspace/Output/Root).
func Lookup(a *node.Arena, id node.ID) *Container {
	n := a.Get(id)
	if n == nil {
		return nil
	}
	c, _ := n.Payload.(*Container)
	return c
}

// Arrange recomputes the pending geometry of c's children from c's own
// pending rectangle and layout, per spec §4.2's distribution rules, and
// marks every affected container dirty. It does not recurse into
// grandchildren with stable geometry; callers re-run Arrange on any child
// whose own Pending.Layout governs further descendants (arrange_root does
// this top-down, see spec §4.3.8).
func Arrange(a *node.Arena, c *Container) {
	if c == nil || c.IsLeaf() {
		return
	}
	content := c.Pending.ContentRect()
	switch c.Pending.Layout {
	case LayoutHorizontal:
		arrangeSplit(a, c, content, true)
	case LayoutVertical:
		arrangeSplit(a, c, content, false)
	case LayoutStacked:
		arrangeStacked(a, c, content)
	case LayoutTabbed:
		arrangeTabbed(a, c, content)
	default:
		// LayoutNone: children keep whatever geometry they already have
		// (used for floating containers' parent, which is never arranged).
	}
}

func markDirty(a *node.Arena, id node.ID) {
	n := a.Get(id)
	if n != nil {
		a.MarkDirty(n)
	}
}

// arrangeSplit distributes content proportionally to each child's stored
// Fraction along the split axis; rounding error is absorbed by the last
// child (spec §4.2).
func arrangeSplit(a *node.Arena, c *Container, content image.Rectangle, horizontal bool) {
	children := c.Pending.Children
	if len(children) == 0 {
		return
	}
	total := content.Dx()
	if !horizontal {
		total = content.Dy()
	}
	pos := 0
	if horizontal {
		pos = content.Min.X
	} else {
		pos = content.Min.Y
	}
	for i, id := range children {
		child := Lookup(a, id)
		if child == nil {
			continue
		}
		share := int(child.Pending.Fraction * float64(total))
		if i == len(children)-1 {
			// Last child absorbs rounding error.
			if horizontal {
				share = content.Max.X - pos
			} else {
				share = content.Max.Y - pos
			}
		}
		if horizontal {
			child.Pending.X = pos
			child.Pending.Y = content.Min.Y
			child.Pending.Width = share
			child.Pending.Height = content.Dy()
			pos += share
		} else {
			child.Pending.X = content.Min.X
			child.Pending.Y = pos
			child.Pending.Width = content.Dx()
			child.Pending.Height = share
			pos += share
		}
		markDirty(a, id)
	}
}

// arrangeStacked gives every child the full content rect minus one
// title-bar strip per child. No scene node is enabled or disabled here;
// VisibleChild reports which child shows.
func arrangeStacked(a *node.Arena, c *Container, content image.Rectangle) {
	children := c.Pending.Children
	stripTotal := TitleBarHeight * len(children)
	body := content
	body.Min.Y += stripTotal
	for _, id := range children {
		child := Lookup(a, id)
		if child == nil {
			continue
		}
		child.Pending.X = body.Min.X
		child.Pending.Y = body.Min.Y
		child.Pending.Width = body.Dx()
		child.Pending.Height = body.Dy()
		markDirty(a, id)
	}
}

// arrangeTabbed gives every child the full content rect minus one shared
// title-bar strip. No scene node is enabled or disabled here; VisibleChild
// reports which child shows.
func arrangeTabbed(a *node.Arena, c *Container, content image.Rectangle) {
	children := c.Pending.Children
	body := content
	body.Min.Y += TitleBarHeight
	for _, id := range children {
		child := Lookup(a, id)
		if child == nil {
			continue
		}
		child.Pending.X = body.Min.X
		child.Pending.Y = body.Min.Y
		child.Pending.Width = body.Dx()
		child.Pending.Height = body.Dy()
		markDirty(a, id)
	}
}

// VisibleChild returns the child that should be visible in a Stacked or
// Tabbed container: the focused-inactive child, or the first child if none
// is set.
func VisibleChild(c *Container) node.ID {
	if c.Pending.FocusedInactiveChild != 0 {
		return c.Pending.FocusedInactiveChild
	}
	if len(c.Pending.Children) > 0 {
		return c.Pending.Children[0]
	}
	return 0
}
