package btreemap

import (
	"cmp"

	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
	"github.com/deploymenttheory/go-rkarchive/internal/checker"
	"github.com/deploymenttheory/go-rkarchive/internal/relptr"
	"github.com/deploymenttheory/go-rkarchive/internal/types"
)

// HeaderLayout is the fixed layout of the map's own header: an 8-byte
// entry count followed by an 8-byte relative pointer to the root node.
var HeaderLayout = types.Layout{Size: 16, Align: 8}

// RootLayout implements checker.RootChecker, letting Params[K, V] serve
// directly as the root type passed to an entry point.
func (p Params[K, V]) RootLayout() types.Layout {
	return HeaderLayout
}

// Leaf describes one validated leaf node in traversal order, retained
// so a caller can iterate the map's entries without re-walking the tree.
type Leaf struct {
	Node  NodeView
	Depth int
}

// MapView is the result of successfully validating an archived B-tree
// map: its declared length and every leaf node in left-to-right order.
type MapView[K cmp.Ordered, V any] struct {
	params Params[K, V]
	ctx    *archcontext.Context
	Len    uint64
	Leaves []Leaf
}

// Entries decodes and returns every (key, value) pair across all
// leaves, in sorted key order. Intended for tests and small maps; large
// maps should walk Leaves directly to avoid materializing everything.
func (m *MapView[K, V]) Entries() ([]Entry[K, V], error) {
	out := make([]Entry[K, V], 0, m.Len)
	for _, leaf := range m.Leaves {
		for i := 0; i < leaf.Node.Len; i++ {
			k, err := m.params.LeafEntryKey(m.ctx, leaf.Node, i)
			if err != nil {
				return nil, err
			}
			v, err := m.params.LeafEntryValue(m.ctx, leaf.Node, i)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry[K, V]{Key: k, Value: v})
		}
	}
	return out, nil
}

// EntryCount returns the map's declared total entry count.
func (m *MapView[K, V]) EntryCount() uint64 {
	return m.Len
}

// LeafCount returns the number of leaves spanning the map.
func (m *MapView[K, V]) LeafCount() int {
	return len(m.Leaves)
}

// Entry is a decoded (key, value) pair.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

type queuedNode struct {
	node  NodeView
	depth int
}

// CheckBytes validates the archived B-tree map header at pos and its
// entire tree, implementing the byte-check protocol so Params[K, V]
// composes with other checkers. pos must already have been established
// as a valid candidate address by the caller (e.g. via Context.CheckPtr
// on the enclosing struct).
func (p Params[K, V]) CheckBytes(ctx *archcontext.Context, pos uint64) (*MapView[K, V], error) {
	headerPos, err := ctx.CheckPtr(pos, 0, HeaderLayout)
	if err != nil {
		return nil, err
	}

	declaredLen, err := checker.Uint64.CheckBytes(ctx, headerPos)
	if err != nil {
		return nil, err
	}
	rootPtr, err := relptr.Decode(ctx.Bytes(), headerPos+8, false)
	if err != nil {
		return nil, err
	}

	queue, err := p.walkStructure(ctx, rootPtr)
	if err != nil {
		return nil, err
	}

	if err := p.checkLeafLevel(ctx, queue); err != nil {
		return nil, err
	}
	leaves := queue

	var entryCount uint64
	for _, qn := range leaves {
		entryCount += uint64(qn.node.Len)
	}
	if entryCount != declaredLen {
		return nil, archerr.WithCounts(archerr.KindLengthMismatch, int(declaredLen), int(entryCount))
	}

	result := make([]Leaf, len(leaves))
	for i, qn := range leaves {
		if err := p.checkLeafEntries(ctx, qn.node); err != nil {
			return nil, err
		}
		result[i] = Leaf{Node: qn.node, Depth: qn.depth}
	}

	return &MapView[K, V]{params: p, ctx: ctx, Len: declaredLen, Leaves: result}, nil
}

// walkStructure performs the breadth-first structural walk: claim and
// classify the root, then repeatedly expand inner nodes at the front of
// the queue until its front is a leaf. Expanded inner nodes are removed
// as they are processed; the returned queue holds the remaining nodes
// (normally only leaves) in traversal order.
func (p Params[K, V]) walkStructure(ctx *archcontext.Context, rootPtr relptr.RelPtr) ([]queuedNode, error) {
	root, err := p.ClaimAndClassify(ctx, rootPtr, true)
	if err != nil {
		return nil, err
	}
	queue := []queuedNode{{node: root, depth: 0}}

	for len(queue) > 0 && queue[0].node.IsInner {
		cur := queue[0]
		queue = queue[1:]

		leftChild, err := p.ClaimAndClassify(ctx, cur.node.Ptr, false)
		if err != nil {
			return nil, err
		}
		queue = append(queue, queuedNode{node: leftChild, depth: cur.depth + 1})

		for i := 0; i < cur.node.Len; i++ {
			entryKey, err := p.InnerEntryKey(ctx, cur.node, i)
			if err != nil {
				return nil, err
			}
			childPtr := p.InnerChildPtr(ctx, cur.node, i)
			child, err := p.ClaimAndClassify(ctx, childPtr, false)
			if err != nil {
				return nil, err
			}
			childFirstKey, err := p.firstTailKey(ctx, child)
			if err != nil {
				return nil, err
			}
			if childFirstKey != entryKey {
				return nil, archerr.New(archerr.KindMismatchedInnerChildKey)
			}
			queue = append(queue, queuedNode{node: child, depth: cur.depth + 1})
		}
	}
	return queue, nil
}

// checkLeafLevel verifies that everything remaining in the queue is a
// leaf at a uniform depth, checks intra-leaf key ordering, and follows
// the forward-pointer chain across leaves.
func (p Params[K, V]) checkLeafLevel(ctx *archcontext.Context, queue []queuedNode) error {
	if len(queue) == 0 {
		return archerr.New(archerr.KindTooFewLeafNodeEntries)
	}
	expectedDepth := queue[0].depth

	for i, qn := range queue {
		if qn.node.IsInner {
			return archerr.New(archerr.KindInnerNodeInLeafLevel)
		}
		if qn.depth != expectedDepth {
			return archerr.WithCounts(archerr.KindInvalidLeafNodeDepth, expectedDepth, qn.depth)
		}
		for j := 1; j < qn.node.Len; j++ {
			prev, err := p.LeafEntryKey(ctx, qn.node, j-1)
			if err != nil {
				return err
			}
			next, err := p.LeafEntryKey(ctx, qn.node, j)
			if err != nil {
				return err
			}
			if next < prev {
				return archerr.New(archerr.KindUnsortedLeafNodeEntries)
			}
		}

		if i < len(queue)-1 {
			nextLeaf := queue[i+1].node
			fwdTarget, err := ctx.CheckRelPtr(qn.node.Ptr, HeaderLayout)
			if err != nil {
				return err
			}
			if fwdTarget != nextLeaf.Pos {
				return archerr.New(archerr.KindUnlinkedLeafNode)
			}
			if qn.node.Len > 0 {
				lastKey, err := p.LeafEntryKey(ctx, qn.node, qn.node.Len-1)
				if err != nil {
					return err
				}
				nextFirstKey, err := p.LeafEntryKey(ctx, nextLeaf, 0)
				if err != nil {
					return err
				}
				if nextFirstKey < lastKey {
					return archerr.New(archerr.KindUnsortedLeafNode)
				}
			}
		} else if !qn.node.Ptr.IsNull() {
			return archerr.New(archerr.KindLastLeafForwardPointerNotNull)
		}
	}
	return nil
}

// checkLeafEntries decodes every key and value in a leaf, surfacing any
// element-level byte-check failure. Keys on adjacent pairs are already
// decoded during ordering checks; this additionally covers values and
// any singleton-tail leaf whose lone key never participated in a pair.
func (p Params[K, V]) checkLeafEntries(ctx *archcontext.Context, nv NodeView) error {
	for i := 0; i < nv.Len; i++ {
		if _, err := p.LeafEntryKey(ctx, nv, i); err != nil {
			return err
		}
		if _, err := p.LeafEntryValue(ctx, nv, i); err != nil {
			return err
		}
	}
	return nil
}
