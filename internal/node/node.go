// Package node implements the typed node tree described in spec §3: a
// polymorphic arena over the variant set {Root, Output, Workspace,
// Container}, each carrying a dirty bit, a destroy signal, and a
// transaction-reference count.
//
// Per the Design Notes, cyclic ownership (container -> workspace -> output
// -> root) is modeled as an arena of nodes keyed by integer NodeId rather
// than as back-pointers, which would require unsafe aliasing in Go.
package node

import (
	"sync/atomic"

	"golang.org/x/exp/slices"
)

// Variant is the polymorphic kind of a Node (spec §3 Node).
type Variant uint8

const (
	VariantRoot Variant = iota
	VariantOutput
	VariantWorkspace
	VariantContainer
)

func (v Variant) String() string {
	switch v {
	case VariantRoot:
		return "root"
	case VariantOutput:
		return "output"
	case VariantWorkspace:
		return "workspace"
	case VariantContainer:
		return "container"
	default:
		return "unknown"
	}
}

// ID uniquely identifies a Node within a process. The zero value never
// denotes a live node.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

// DestroyListener is called exactly once, when a node is finally freed
// (txnrefs reaches zero after destroying was set). It plays the role of
// original_source's wl_listener destroy signal.
type DestroyListener func(id ID)

// Instruction is the minimal interface a pending-transaction instruction
// must satisfy so the arena can track txnrefs without importing the
// transaction package (which would create an import cycle: transaction
// depends on node, not vice versa).
type Instruction interface {
	TargetID() ID
}

// Node is one entry in the arena. Payload holds the variant-specific state
// (an *container.Container, *workspace.Workspace, etc.) as an opaque value; the
// owning packages type-assert it back after looking it up.
type Node struct {
	ID      ID
	Variant Variant
	Payload any

	Dirty      bool
	Destroying bool
	TxnRefs    int

	// Pending is set while a transaction instruction referencing this node
	// is in flight (queued or pending-next). At most one may be set at a
	// time per spec §4.3.3 ("a node can appear at most once in the
	// in-flight transaction").
	Pending Instruction

	destroyListeners []DestroyListener
}

// Arena owns the set of live nodes. It is not safe for concurrent use from
// multiple goroutines; per spec §5 all mutation happens on the single
// compositor event-loop goroutine.
type Arena struct {
	nodes map[ID]*Node
	dirty []ID
}

// NewArena constructs an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: make(map[ID]*Node)}
}

// Create allocates a new node of the given variant with the given payload
// and inserts it into the arena. The node starts clean (not dirty).
func (a *Arena) Create(variant Variant, payload any) *Node {
	n := &Node{
		ID:      nextID(),
		Variant: variant,
		Payload: payload,
	}
	a.nodes[n.ID] = n
	return n
}

// Get looks up a node by id. Returns nil if the node doesn't exist (e.g.
// already freed).
func (a *Arena) Get(id ID) *Node {
	return a.nodes[id]
}

// MarkDirty sets n.Dirty and enqueues it into the arena's dirty set,
// maintaining invariant P1 (dirty_nodes contains a node iff its dirty flag
// is true). Idempotent: marking an already-dirty node is a no-op on the
// queue.
func (a *Arena) MarkDirty(n *Node) {
	if n.Dirty {
		return
	}
	n.Dirty = true
	a.dirty = append(a.dirty, n.ID)
}

// DrainDirty returns the current dirty set and clears it, unmarking every
// returned node's Dirty flag. This is the collection step of
// commit_dirty (spec §4.3.4).
func (a *Arena) DrainDirty() []*Node {
	if len(a.dirty) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(a.dirty))
	for _, id := range a.dirty {
		n := a.nodes[id]
		if n == nil {
			continue
		}
		n.Dirty = false
		out = append(out, n)
	}
	a.dirty = a.dirty[:0]
	return out
}

// DirtyLen reports how many nodes are currently dirty, for commit_dirty's
// empty-check.
func (a *Arena) DirtyLen() int {
	return len(a.dirty)
}

// OnDestroy registers a listener fired when the node is finally freed.
func (n *Node) OnDestroy(fn DestroyListener) {
	n.destroyListeners = append(n.destroyListeners, fn)
}

// BeginDestroy marks the node as destroying. Per invariant 3, a destroying
// node must never be re-parented or gain children afterwards; callers in
// container/workspace enforce that by checking Destroying before mutating
// pending parent/children fields.
func (n *Node) BeginDestroy() {
	n.Destroying = true
}

// Ref increments the node's transaction-reference count. Called when a node
// is added to a transaction instruction (spec §4.3.3).
func (n *Node) Ref() {
	n.TxnRefs++
}

// Unref decrements the node's transaction-reference count and, if it has
// reached zero while the node is destroying, finally frees it: the destroy
// signal fires and the node is removed from the arena.
//
// Returns true if the node was freed.
func (a *Arena) Unref(n *Node) bool {
	n.TxnRefs--
	if n.TxnRefs < 0 {
		n.TxnRefs = 0
	}
	if n.Destroying && n.TxnRefs == 0 {
		a.free(n)
		return true
	}
	return false
}

func (a *Arena) free(n *Node) {
	delete(a.nodes, n.ID)
	idx := slices.Index(a.dirty, n.ID)
	if idx >= 0 {
		a.dirty = slices.Delete(a.dirty, idx, idx+1)
	}
	for _, l := range n.destroyListeners {
		l(n.ID)
	}
}

// Live reports whether id still refers to a node in the arena.
func (a *Arena) Live(id ID) bool {
	return a.nodes[id] != nil
}

// Len returns the number of live nodes, mostly for tests.
func (a *Arena) Len() int {
	return len(a.nodes)
}
