// Package transaction implements the atomic transaction engine of spec
// §4.3: dirty collection, configure fan-out, bounded-timeout ack
// collection, and atomic apply. This is the central algorithm of the whole
// subsystem (component 5, spec §2).
package transaction

import (
	"image"

	"github.com/google/uuid"
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/view"
	ws "github.com/wsmwm/wsm/internal/workspace"
)

// OutputState is the instruction snapshot for an Output node (spec §4.3.3).
type OutputState struct {
	Workspaces []node.ID
	Active     node.ID
}

// WorkspaceState is the instruction snapshot for a Workspace node.
type WorkspaceState struct {
	Floating             []node.ID
	Tiling               []node.ID
	FocusedInactiveChild node.ID
}

// Instruction is the tagged per-node record inside a Transaction (spec
// §4.3.3). Exactly one of OutputState/WorkspaceState/ContainerState is
// non-nil, matching the node's Variant.
type Instruction struct {
	NodeID  node.ID
	Variant node.Variant

	ServerRequest bool
	Waiting       bool

	Serial       toolkit.ConfigureSerial
	GeometryRect image.Rectangle // content rect at commit time, for XWayland ack matching

	View *view.View // non-nil only for a leaf Container with a view (mapped or not)

	OutputState    *OutputState
	WorkspaceState *WorkspaceState
	ContainerState *container.State
}

// TargetID implements node.Instruction.
func (i *Instruction) TargetID() node.ID { return i.NodeID }

// Transaction owns the instructions collected from one dirty batch (spec
// §4.3.2, §4.3.3).
type Transaction struct {
	ID           string
	Instructions map[node.ID]*Instruction
	NumWaiting   int
}

func newTransaction() *Transaction {
	return &Transaction{
		ID:           uuid.NewString(),
		Instructions: make(map[node.ID]*Instruction),
	}
}

// Engine is the process-wide transaction state machine (spec §4.3.2):
// pending_transaction, queued_transaction, the dirty set (delegated to the
// node.Arena), and the timeout timer.
type Engine struct {
	Arena     *node.Arena
	TimeoutMs int
	timer     Timer

	pending *Transaction
	queued  *Transaction

	// IsVisible reports whether a container is currently visible (not
	// hidden by a scratchpad/stacked/tabbed sibling), governing whether the
	// engine waits for its ack (spec §4.3.5). Nil means "always visible".
	IsVisible func(id node.ID) bool

	// OnApplied is called once per completed transaction, after current
	// state is updated but before instructions are freed, so the server can
	// run arrange_root and rebase cursor focus (spec §4.3.8).
	OnApplied func(*Transaction)
}

// NewEngine constructs an Engine with the spec-default 200ms timeout.
func NewEngine(a *node.Arena) *Engine {
	return &Engine{
		Arena:     a,
		TimeoutMs: 200,
		timer:     NewRealTimer(),
	}
}

// SetTimer overrides the timer implementation (tests use a fake one to
// fire the timeout deterministically).
func (e *Engine) SetTimer(t Timer) {
	e.timer = t
}

// CommitDirty collects the dirty set into a transaction as a
// server-initiated change (spec §4.3.4, mirroring
// original_source/compositor/wsm_transaction.h's transaction_commit_dirty).
func (e *Engine) CommitDirty() {
	e.commitDirty(true)
}

// CommitDirtyClient is the same as CommitDirty but flags the change as
// already having taken effect on the client side (mirrors
// transaction_commit_dirty_client).
func (e *Engine) CommitDirtyClient() {
	e.commitDirty(false)
}

func (e *Engine) commitDirty(serverRequest bool) {
	dirty := e.Arena.DrainDirty()
	if len(dirty) == 0 {
		return
	}
	if e.pending == nil {
		e.pending = newTransaction()
	}
	for _, n := range dirty {
		e.addNode(e.pending, n, serverRequest)
	}
	e.commitPending()
}

// addNode adds or refreshes n's instruction in txn, per spec §4.3.3: a
// repeat add updates the existing instruction in place and the
// server-request flag becomes sticky-true.
func (e *Engine) addNode(txn *Transaction, n *node.Node, serverRequest bool) {
	instr, exists := txn.Instructions[n.ID]
	if !exists {
		instr = &Instruction{NodeID: n.ID, Variant: n.Variant, ServerRequest: serverRequest}
		txn.Instructions[n.ID] = instr
		n.Ref()
		n.Pending = instr
	} else {
		instr.ServerRequest = instr.ServerRequest || serverRequest
	}

	switch p := n.Payload.(type) {
	case *container.Container:
		st := p.Pending.Clone()
		instr.ContainerState = &st
		instr.View = p.View
	case *ws.Workspace:
		instr.WorkspaceState = &WorkspaceState{
			Floating:             append([]node.ID(nil), p.Floating...),
			Tiling:               append([]node.ID(nil), p.Tiling...),
			FocusedInactiveChild: p.FocusedInactiveChild,
		}
	case *ws.Output:
		instr.OutputState = &OutputState{
			Workspaces: append([]node.ID(nil), p.Manager.Workspaces...),
			Active:     p.Manager.ActiveID,
		}
	}
}

// commitPending refuses to start a new commit if one is already queued
// (the "at-most-one in-flight" guarantee of spec §4.3.1).
func (e *Engine) commitPending() {
	if e.queued != nil {
		return
	}
	if e.pending == nil {
		return
	}
	e.queued = e.pending
	e.pending = nil
	e.commit(e.queued)
}

// QueuedID exposes the in-flight transaction's id, or "" if none, mostly
// for logging/tests.
func (e *Engine) QueuedID() string {
	if e.queued == nil {
		return ""
	}
	return e.queued.ID
}

// HasPending reports whether a transaction has accumulated behind the
// in-flight one.
func (e *Engine) HasPending() bool {
	return e.pending != nil
}
