// Package faketk is an in-memory toolkit.* implementation used by tests
// across the module, so each package doesn't need to hand-roll its own
// scene/view/output fakes. It never renders anything; it just records the
// calls the core makes, mirroring the role gioui.org/op.Ops plays as a
// recorded, inspectable instruction stream in gio's own tests.
package faketk

import (
	"context"
	"image"

	"github.com/wsmwm/wsm/internal/toolkit"
)

// Tree is a fake toolkit.SceneTree that records its state for assertions.
type Tree struct {
	Name     string
	Enabled  bool
	X, Y     int
	Parent   *Tree
	Children []*Tree
}

// NewTree creates a detached, enabled root tree.
func NewTree(name string) *Tree {
	return &Tree{Name: name, Enabled: true}
}

func (t *Tree) SetEnabled(enabled bool) { t.Enabled = enabled }
func (t *Tree) SetPosition(x, y int)    { t.X, t.Y = x, y }

func (t *Tree) Reparent(parent toolkit.SceneNode) {
	if t.Parent != nil {
		t.Parent.removeChild(t)
	}
	if parent == nil {
		t.Parent = nil
		return
	}
	p := parent.(*Tree)
	t.Parent = p
	p.Children = append(p.Children, t)
}

func (t *Tree) removeChild(c *Tree) {
	for i, ch := range t.Children {
		if ch == c {
			t.Children = append(t.Children[:i], t.Children[i+1:]...)
			return
		}
	}
}

// CreateTree creates a child tree.
func (t *Tree) CreateTree() toolkit.SceneTree {
	c := NewTree(t.Name + "/child")
	c.Reparent(t)
	return c
}

// Surface is a fake toolkit.Surface.
type Surface struct {
	W, H int
}

func (s *Surface) Size() image.Point { return image.Pt(s.W, s.H) }

// View is a fake toolkit.ViewBackend that records configure calls and lets
// tests control whether/when it acks.
type View struct {
	Serial       toolkit.ConfigureSerial
	Configures   []image.Point
	ClosedCalled bool
	Saved        *Surface

	Activated      bool
	ActivatedCalls []bool
	KeyboardEnters int
	KeyboardLeaves int

	// SynthesizedButtons records each SynthesizePointerButton call in
	// order (true=press, false=release), for asserting the touch-to-pointer
	// simulation gate (spec §4.5).
	SynthesizedButtons []bool
}

func (v *View) Configure(width, height int) toolkit.ConfigureSerial {
	v.Serial++
	v.Configures = append(v.Configures, image.Pt(width, height))
	return v.Serial
}

func (v *View) SnapshotSurface() toolkit.Surface {
	v.Saved = &Surface{}
	return v.Saved
}

func (v *View) Close() { v.ClosedCalled = true }

func (v *View) SetActivated(activated bool) {
	v.Activated = activated
	v.ActivatedCalls = append(v.ActivatedCalls, activated)
}

func (v *View) KeyboardEnter() { v.KeyboardEnters++ }
func (v *View) KeyboardLeave() { v.KeyboardLeaves++ }

func (v *View) SynthesizePointerButton(pressed bool) {
	v.SynthesizedButtons = append(v.SynthesizedButtons, pressed)
}

// Output is a fake toolkit.OutputBackend.
type Output struct {
	NameStr   string
	Phys      image.Point
	ModeList  []toolkit.OutputMode
	Preferred toolkit.OutputMode
	TestFn    func(toolkit.PendingOutputState) bool
	Committed []toolkit.PendingOutputState
}

func (o *Output) Name() string                     { return o.NameStr }
func (o *Output) PhysicalSize() image.Point         { return o.Phys }
func (o *Output) Modes() []toolkit.OutputMode       { return o.ModeList }
func (o *Output) PreferredMode() toolkit.OutputMode { return o.Preferred }

func (o *Output) TestState(st toolkit.PendingOutputState) bool {
	if o.TestFn != nil {
		return o.TestFn(st)
	}
	return true
}

func (o *Output) CommitState(st toolkit.PendingOutputState) bool {
	if !o.TestState(st) {
		return false
	}
	o.Committed = append(o.Committed, st)
	return true
}

// Swapchain is a fake toolkit.SwapchainManager.
type Swapchain struct {
	PrepareFn func(map[string]toolkit.PendingOutputState) bool
}

func (s *Swapchain) Prepare(states map[string]toolkit.PendingOutputState) bool {
	if s.PrepareFn != nil {
		return s.PrepareFn(states)
	}
	return true
}

// Backend is a fake toolkit.Backend for cmd/wsm's bootstrap tests.
type Backend struct {
	SocketName string
	ListenErr  error
	RunFn      func(ctx context.Context) error

	rootTree *Tree
	swap     *Swapchain
}

func (b *Backend) Listen(candidate string) (string, error) {
	if b.ListenErr != nil {
		return "", b.ListenErr
	}
	if b.SocketName != "" {
		return b.SocketName, nil
	}
	return candidate, nil
}

func (b *Backend) Root() toolkit.SceneTree {
	if b.rootTree == nil {
		b.rootTree = NewTree("root")
	}
	return b.rootTree
}

func (b *Backend) Swapchain() toolkit.SwapchainManager {
	if b.swap == nil {
		b.swap = &Swapchain{}
	}
	return b.swap
}

func (b *Backend) Run(ctx context.Context) error {
	if b.RunFn != nil {
		return b.RunFn(ctx)
	}
	<-ctx.Done()
	return ctx.Err()
}
