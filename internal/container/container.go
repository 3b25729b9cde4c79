// Package container implements the container engine of spec §4.2: the
// geometry model, the tiling layouts and their tie-breaks, border policy,
// and fullscreen modes. Sticky semantics that need workspace context live in
// the workspace package, and scratchpad show/hide (which needs root context)
// lives in the server package; both compose this package's geometry helpers.
package container

import (
	"image"

	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/view"
)

// Layout is the arrangement algorithm a container with children uses, and
// also the value stored on a Workspace (spec §3 Workspace.layout).
type Layout uint8

const (
	LayoutNone Layout = iota
	LayoutHorizontal
	LayoutVertical
	LayoutStacked
	LayoutTabbed
)

// BorderStyle is the container's decoration policy (spec §3 Container).
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderPixel
	BorderNormal
	BorderCSD
)

// FullscreenMode is the container's fullscreen claim, if any (spec §3, §4.2).
type FullscreenMode uint8

const (
	FullscreenNone FullscreenMode = iota
	FullscreenWorkspace
	FullscreenGlobal
)

// TitleBarHeight is the per-child strip height used by Stacked layout and
// the single shared strip height used by Tabbed layout (spec §4.2).
const TitleBarHeight = 24

// State is a complete, self-contained snapshot of a container's layout
// state: both Container.pending and Container.current are one of these
// (spec §3 Container, Design Notes "Pending vs current").
type State struct {
	X, Y, Width, Height int

	Parent    node.ID // zero if top-level under a workspace
	Workspace node.ID

	Layout   Layout
	Children []node.ID

	Border          BorderStyle
	BorderThickness int

	Fullscreen FullscreenMode

	FocusedInactiveChild node.ID
	Title                string

	Sticky bool

	// Fraction is this container's proportional share of its parent's
	// content rectangle along the parent's layout axis (spec §4.2
	// Horizontal/Vertical distribution).
	Fraction float64
}

// Clone returns a deep copy of s (Children is copied, not aliased), used
// when building a transaction instruction snapshot (spec §4.3.3).
func (s State) Clone() State {
	c := s
	c.Children = append([]node.ID(nil), s.Children...)
	return c
}

// Container is a rectangle in the container tree: either a leaf wrapping a
// View, or an internal node with children (spec §3 Container).
type Container struct {
	NodeID node.ID

	Pending State
	Current State

	View *view.View // nil for internal (non-leaf) containers

	SceneTree   toolkit.SceneTree
	ContentTree toolkit.SceneTree
	Borders     [4]toolkit.SceneTree // top, bottom, left, right
	TitleBar    toolkit.SceneTree
}

// IsLeaf reports whether this container wraps a View rather than children.
func (c *Container) IsLeaf() bool {
	return c.View != nil
}

// New constructs a leaf or internal container, depending on whether v is
// non-nil, and registers it in the arena.
func New(a *node.Arena, v *view.View) *Container {
	c := &Container{View: v}
	n := a.Create(node.VariantContainer, c)
	c.NodeID = n.ID
	return c
}

// ContentRect returns the rectangle available for a container's children
// (or for its own view) after subtracting border thickness and title-bar
// strips, per the container's current border policy.
func (s State) ContentRect() image.Rectangle {
	r := image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height)
	switch s.Border {
	case BorderPixel, BorderNormal:
		r.Min.X += s.BorderThickness
		r.Min.Y += s.BorderThickness
		r.Max.X -= s.BorderThickness
		r.Max.Y -= s.BorderThickness
		if s.Border == BorderNormal {
			r.Min.Y += TitleBarHeight
		}
	}
	if r.Dx() < 0 {
		r.Max.X = r.Min.X
	}
	if r.Dy() < 0 {
		r.Max.Y = r.Min.Y
	}
	return r
}
