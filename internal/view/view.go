// Package view implements the mapped-surface façade of spec §3 View and its
// map/unmap/configure/destroy contracts (spec §4 component 9). A View is
// owned by exactly one leaf Container; the transaction engine drives its
// configure/ack/apply lifecycle.
package view

import (
	"image"

	"github.com/wsmwm/wsm/internal/toolkit"
)

// ClientType tags which shell protocol produced a View, used to select
// ack-matching strategy (serial vs geometry, spec §4.3.6).
type ClientType uint8

const (
	ClientXDGShell ClientType = iota
	ClientXWayland
	ClientLayerShell
)

// ForeignToplevelState is the state bitset mirrored into the
// foreign-toplevel-management protocol object (SPEC_FULL.md supplement #2).
type ForeignToplevelState uint8

const (
	FTMaximized ForeignToplevelState = 1 << iota
	FTMinimized
	FTActivated
	FTFullscreen
)

// ForeignToplevelHandle is the bookkeeping wsm keeps for the
// foreign-toplevel-management global, updated on every apply.
type ForeignToplevelHandle struct {
	Title  string
	AppID  string
	State  ForeignToplevelState
	Parent *ForeignToplevelHandle
}

// View is the compositor-side façade for one mapped client surface.
type View struct {
	Backend toolkit.ViewBackend
	Type    ClientType

	// Natural is the surface's initial/unconstrained size; Geometry is the
	// current content geometry the compositor has assigned it.
	Natural  image.Rectangle
	Geometry image.Rectangle

	// SavedSurface holds the last-good buffer tree shown while a
	// transaction is in flight and the client hasn't acked yet (spec
	// §4.3.1 stale-content tolerance).
	SavedSurface toolkit.Surface

	Urgent     bool
	Fullscreen bool

	// MaxRenderTimeMs bounds how long this view's frame-done callback may
	// be delayed to align with vblank (spec §5 suspension point 3).
	MaxRenderTimeMs int

	Foreign *ForeignToplevelHandle

	// PendingSerial is the configure serial most recently sent to this
	// view and not yet acked. Zero means no outstanding configure.
	PendingSerial toolkit.ConfigureSerial

	// AcceptsTouch and AcceptsPointer report which input a surface declares
	// it handles (spec §4.5 touch-to-pointer simulation's capability gate).
	// A regular toplevel accepts both; a surface that only wants pointer
	// input (AcceptsTouch=false) is what triggers simulation.
	AcceptsTouch   bool
	AcceptsPointer bool

	mapped bool
}

// New constructs a View wrapping a toolkit backend handle. New views accept
// both touch and pointer input by default (spec §4.5); callers flip
// AcceptsTouch off for surfaces that declared otherwise.
func New(backend toolkit.ViewBackend, typ ClientType) *View {
	return &View{Backend: backend, Type: typ, MaxRenderTimeMs: 8, AcceptsTouch: true, AcceptsPointer: true}
}

// Map marks the view as mapped: it now participates in focus, scene
// placement and transactions.
func (v *View) Map(natural image.Rectangle) {
	v.Natural = natural
	v.Geometry = natural
	v.mapped = true
}

// Mapped reports whether the client has mapped this view's surface.
func (v *View) Mapped() bool {
	return v.mapped
}

// Unmap begins the unmap contract: the view stops being visible but the
// Container (and its destroy bookkeeping) is responsible for the rest.
func (v *View) Unmap() {
	v.mapped = false
}

// EnsureSavedSurface snapshots the current buffer if one hasn't been saved
// yet, per spec §4.3.5 ("If the view has no saved buffer yet, snapshot it
// now").
func (v *View) EnsureSavedSurface() {
	if v.SavedSurface == nil {
		v.SavedSurface = v.Backend.SnapshotSurface()
	}
}

// DropSavedSurface releases the stale-content buffer, done at apply time
// once the live content has caught up (spec §4.3.8), unless the container
// is still destroying.
func (v *View) DropSavedSurface() {
	v.SavedSurface = nil
}

// ContentSizeChanged reports whether newSize differs from the view's
// current content box, per spec §4.3.5's configure-skip rule and boundary
// B1 (no-op configure when size is unchanged).
func (v *View) ContentSizeChanged(newSize image.Point) bool {
	cur := v.Geometry.Size()
	return cur.X != newSize.X || cur.Y != newSize.Y
}

// TruncatedOrigin returns the view's content origin truncated to integers,
// used for XWayland geometry-based ack matching (spec §4.3.6, boundary B2).
func (v *View) TruncatedOrigin() image.Point {
	return v.Geometry.Min
}

// ContentOriginChanged reports whether newOrigin differs from the view's
// current truncated content origin. XWayland has no configure serial, so a
// move-without-resize must still trigger a configure/ack-wait cycle or the
// commit phase would never notice the window moved (spec §4.3.5: "for
// XWayland the integer-truncated content origin changed").
func (v *View) ContentOriginChanged(newOrigin image.Point) bool {
	return v.TruncatedOrigin() != newOrigin
}
