// Package btreemap implements the B-tree map validator: the most
// intricate client of the validation context, checking a recursive,
// pointer-linked structure with overlapping invariants (balance,
// ordering, sibling linkage, count).
package btreemap

import (
	"cmp"

	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
	"github.com/deploymenttheory/go-rkarchive/internal/checker"
	"github.com/deploymenttheory/go-rkarchive/internal/relptr"
	"github.com/deploymenttheory/go-rkarchive/internal/types"
)

// HeaderSize is the encoded size of a node's fixed header: an 8-byte
// meta word followed by an 8-byte relative-pointer offset (the header's
// ptr field carries no DST metadata — unlike the child it may point to,
// its own layout is always fixed size).
const HeaderSize = 16

// HeaderBaseAlign is the alignment every node satisfies independent of
// its entry type: the header's own fields (an 8-byte meta word and an
// 8-byte pointer offset) never need more than 8-byte alignment.
const HeaderBaseAlign = 8

const (
	minInnerEntries = int(types.MinEntriesPerInnerNode)
	minLeafEntries  = int(types.MinEntriesPerLeafNode)
)

// Params bundles everything the validator needs to know about the
// concrete K, V pair of an archived map: their encoded width/alignment
// and the byte-check procedures that decode them. K must be orderable so
// the key-ordering invariants within and across leaves can be checked
// directly.
type Params[K cmp.Ordered, V any] struct {
	KeySize      uint64
	KeyAlign     uint64
	ValueSize    uint64
	ValueAlign   uint64
	KeyChecker   checker.ByteChecker[K]
	ValueChecker checker.ByteChecker[V]
	StrictLayout bool
}

func (p Params[K, V]) entryAlign() uint64 {
	a := p.KeyAlign
	if a < 8 {
		a = 8 // the inner entry's trailing child RelPtr is 8-byte aligned
	}
	if p.ValueAlign > a {
		a = p.ValueAlign
	}
	return a
}

func (p Params[K, V]) nodeAlign() uint64 {
	a := p.entryAlign()
	if HeaderBaseAlign > a {
		return HeaderBaseAlign
	}
	return a
}

func (p Params[K, V]) innerEntrySize() uint64 {
	return p.KeySize + 8
}

func (p Params[K, V]) leafEntrySize() uint64 {
	return p.KeySize + p.ValueSize
}

func (p Params[K, V]) headerLayout() types.Layout {
	return types.Layout{Size: HeaderSize, Align: p.nodeAlign()}
}

func (p Params[K, V]) entryLayout(isInner bool) types.Layout {
	if isInner {
		return types.Layout{Size: p.innerEntrySize(), Align: p.entryAlign()}
	}
	return types.Layout{Size: p.leafEntrySize(), Align: p.entryAlign()}
}

// NodeView is a lazily-decoded view over a validated node's raw bytes:
// the fixed header plus enough information to address any tail entry on
// demand. It never copies the tail out of the buffer.
type NodeView struct {
	Pos     uint64
	IsInner bool
	Len     int
	// Ptr is the left-edge child pointer for an inner node, or the
	// forward pointer to the next leaf for a leaf node.
	Ptr relptr.RelPtr

	tailPos uint64
}

// InnerChildPtr returns the i-th tail entry's child pointer (inner nodes
// only).
func (p Params[K, V]) InnerChildPtr(ctx *archcontext.Context, nv NodeView, i int) relptr.RelPtr {
	base := nv.tailPos + uint64(i)*p.innerEntrySize() + p.KeySize
	rp, _ := relptr.Decode(ctx.Bytes(), base, false)
	return rp
}

// InnerEntryKey decodes the i-th tail entry's key (inner nodes only).
func (p Params[K, V]) InnerEntryKey(ctx *archcontext.Context, nv NodeView, i int) (K, error) {
	pos := nv.tailPos + uint64(i)*p.innerEntrySize()
	k, err := p.KeyChecker.CheckBytes(ctx, pos)
	if err != nil {
		var zero K
		return zero, archerr.Field("key", archerr.Wrap(archerr.KindKeyCheckError, err))
	}
	return k, nil
}

// LeafEntryKey decodes the i-th tail entry's key (leaf nodes only).
func (p Params[K, V]) LeafEntryKey(ctx *archcontext.Context, nv NodeView, i int) (K, error) {
	pos := nv.tailPos + uint64(i)*p.leafEntrySize()
	k, err := p.KeyChecker.CheckBytes(ctx, pos)
	if err != nil {
		var zero K
		return zero, archerr.Field("key", archerr.Wrap(archerr.KindKeyCheckError, err))
	}
	return k, nil
}

// LeafEntryValue decodes the i-th tail entry's value (leaf nodes only).
func (p Params[K, V]) LeafEntryValue(ctx *archcontext.Context, nv NodeView, i int) (V, error) {
	pos := nv.tailPos + uint64(i)*p.leafEntrySize() + p.KeySize
	v, err := p.ValueChecker.CheckBytes(ctx, pos)
	if err != nil {
		var zero V
		return zero, archerr.Field("value", archerr.Wrap(archerr.KindValueCheckError, err))
	}
	return v, nil
}
