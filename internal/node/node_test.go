package node

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkDirtyIsIdempotentAndP1(t *testing.T) {
	a := NewArena()
	n := a.Create(VariantContainer, nil)
	require.False(t, n.Dirty)
	require.Equal(t, 0, a.DirtyLen())

	a.MarkDirty(n)
	require.True(t, n.Dirty)
	require.Equal(t, 1, a.DirtyLen())

	// Idempotent: marking again does not grow the dirty queue.
	a.MarkDirty(n)
	require.Equal(t, 1, a.DirtyLen())

	drained := a.DrainDirty()
	require.Len(t, drained, 1)
	require.Same(t, n, drained[0])
	require.False(t, n.Dirty, "DrainDirty must clear the flag (P1)")
	require.Equal(t, 0, a.DirtyLen())
}

func TestTxnRefsFreeOnZero(t *testing.T) {
	a := NewArena()
	n := a.Create(VariantContainer, nil)
	n.Ref()
	n.Ref()
	require.Equal(t, 2, n.TxnRefs)

	n.BeginDestroy()
	freed := a.Unref(n)
	require.False(t, freed, "must stay alive while txnrefs > 0 (B3)")
	require.True(t, a.Live(n.ID))

	freed = a.Unref(n)
	require.True(t, freed)
	require.False(t, a.Live(n.ID))
}

func TestDestroyListenerFiresOnce(t *testing.T) {
	a := NewArena()
	n := a.Create(VariantWorkspace, nil)
	calls := 0
	n.OnDestroy(func(id ID) { calls++ })
	n.Ref()
	n.BeginDestroy()
	a.Unref(n)
	require.Equal(t, 1, calls)
}

func TestUnrefNeverGoesNegative(t *testing.T) {
	a := NewArena()
	n := a.Create(VariantContainer, nil)
	n.BeginDestroy()
	a.Unref(n)
	require.Equal(t, 0, n.TxnRefs)
}
