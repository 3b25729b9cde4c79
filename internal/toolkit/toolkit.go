// Package toolkit declares the interfaces wsm's core expects from the
// lower-level Wayland compositor toolkit it is built on (spec §1): raw
// Wayland protocol handling, DRM/KMS output backends, a GPU renderer, input
// device abstraction, and the scene primitive. wsm never implements these
// -- it only calls them -- so they are interfaces here, shaped like
// gioui.org's opaque-handle-plus-capability-table pattern
// (io/event.Tag, app.Callbacks) rather than concrete structs.
package toolkit

import (
	"context"
	"image"
)

// SceneNode is an opaque handle to one node in the toolkit's scene graph.
// The core never inspects a SceneNode's internals; it only reparents,
// enables/disables, and positions it.
type SceneNode interface {
	SetEnabled(enabled bool)
	SetPosition(x, y int)
	Reparent(parent SceneNode)
}

// SceneTree is a SceneNode that can additionally own children; it is what
// the core creates one of per scene layer (spec §4.1).
type SceneTree interface {
	SceneNode
	CreateTree() SceneTree
}

// Surface is an opaque handle to a client's mapped surface buffer.
type Surface interface {
	// Size returns the surface's current buffer size in surface-local
	// coordinates.
	Size() image.Point
}

// ConfigureSerial is the monotonically increasing serial a toolkit assigns
// to each xdg-shell configure event.
type ConfigureSerial uint32

// ViewBackend is the subset of a toolkit view object (xdg_toplevel,
// xwayland surface, layer surface) the transaction/view lifecycle needs.
type ViewBackend interface {
	// Configure asks the client to resize to width x height, returning the
	// serial the client is expected to ack (0 for backends without serials,
	// i.e. XWayland).
	Configure(width, height int) ConfigureSerial
	// SnapshotSurface saves the current buffer tree so it can keep being
	// shown while a transaction is in flight.
	SnapshotSurface() Surface
	// Close asks the client to close the view (e.g. xdg_toplevel.close).
	Close()
	// SetActivated tells the client whether it is the seat's focused view
	// (xdg_toplevel's "activated" state, spec §4.4.1 set_focus).
	SetActivated(activated bool)
	// KeyboardEnter delivers wl_keyboard.enter to this view's surface.
	KeyboardEnter()
	// KeyboardLeave delivers wl_keyboard.leave to this view's surface.
	KeyboardLeave()
	// SynthesizePointerButton synthesizes a BTN_LEFT press (true) or
	// release (false), used by touch-to-pointer simulation when a touch
	// lands on a surface that accepts pointer input but not touch (spec
	// §4.5).
	SynthesizePointerButton(pressed bool)
}

// OutputBackend is the subset of a toolkit output object the output
// configuration pipeline needs.
type OutputBackend interface {
	Name() string
	// PhysicalSize returns the display's physical size in millimeters, or
	// the zero point if unknown/placeholder.
	PhysicalSize() image.Point
	// Modes returns the set of modes the output supports.
	Modes() []OutputMode
	// PreferredMode returns the backend's preferred mode.
	PreferredMode() OutputMode
	// TestState asks the backend whether a pending state is acceptable
	// without committing it (used by swapchain-aware test/commit, §4.6).
	TestState(st PendingOutputState) bool
	// CommitState atomically commits a pending state.
	CommitState(st PendingOutputState) bool
}

// OutputMode is one mode (resolution+refresh) a backend can run.
type OutputMode struct {
	Width, Height int
	RefreshMilliHz int
	Preferred      bool
}

// PendingOutputState is the toolkit-facing staged output configuration the
// pipeline builds before testing/committing it.
type PendingOutputState struct {
	Enabled        bool
	Mode           OutputMode
	Scale          float64
	Transform      int
	AdaptiveSync   bool
	RenderFormat   RenderFormat
	X, Y           int
}

// RenderFormat is the output's chosen scan-out pixel format.
type RenderFormat uint8

const (
	FormatXRGB8888 RenderFormat = iota
	FormatXRGB2101010
)

// SwapchainManager groups all pending output states for an atomic
// multi-output test/commit pass (spec §4.6 step 4).
type SwapchainManager interface {
	Prepare(states map[string]PendingOutputState) bool
}

// Backend is the toolkit's process bootstrap entry point: the thing that
// opens the Wayland display socket, hands out the root scene tree and
// swapchain coordinator, and drives the protocol event loop (spec §6). wsm's
// core never implements this; cmd/wsm only calls it, the same way it calls
// every other interface in this package.
type Backend interface {
	// Listen creates the display socket, preferring name (a "wayland-N"
	// candidate) if it's free, and returns the name actually bound -- the
	// toolkit's own automatic naming takes over if name is unavailable
	// (spec §6 Socket).
	Listen(name string) (string, error)
	// Root returns the scene tree every output/layer attaches under.
	Root() SceneTree
	// Swapchain returns the output-commit coordinator for the output
	// configuration pipeline (spec §4.6 step 4).
	Swapchain() SwapchainManager
	// Run drives the toolkit's event loop until ctx is done, then tears
	// down the display and evicts clients (spec §6 Signals).
	Run(ctx context.Context) error
}
