package btreemap

import (
	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
	"github.com/deploymenttheory/go-rkarchive/internal/checker"
	"github.com/deploymenttheory/go-rkarchive/internal/layout"
	"github.com/deploymenttheory/go-rkarchive/internal/relptr"
)

// ClaimAndClassify resolves and claims the node rel points to, reading
// just enough to know its full size before claiming it.
//
// A node's tail length isn't known until its header is read, so this
// works in two passes: first a bounds/alignment check of the fixed
// header only (no claim, since the full extent isn't known yet), then
// once the entry count is decoded, a single claim of the whole node at
// its real size. allowEmptyLeaf permits a zero-entry leaf node, which
// only the map's own root may be.
func (p Params[K, V]) ClaimAndClassify(ctx *archcontext.Context, rel relptr.RelPtr, allowEmptyLeaf bool) (NodeView, error) {
	headerPos, err := ctx.CheckPtr(rel.Base, rel.Offset, p.headerLayout())
	if err != nil {
		return NodeView{}, err
	}

	meta, err := checker.Uint64.CheckBytes(ctx, headerPos)
	if err != nil {
		return NodeView{}, err
	}
	isInner, length := SplitMeta(meta)

	if isInner && length < minInnerEntries {
		return NodeView{}, archerr.WithCounts(archerr.KindTooFewInnerNodeEntries, minInnerEntries, length)
	}
	if !isInner && length < minLeafEntries && !(allowEmptyLeaf && length == 0) {
		return NodeView{}, archerr.WithCounts(archerr.KindTooFewLeafNodeEntries, minLeafEntries, length)
	}

	ptr, err := relptr.Decode(ctx.Bytes(), headerPos+8, false)
	if err != nil {
		return NodeView{}, err
	}

	full := layout.NodeLayout(p.headerLayout(), p.entryLayout(isInner), uint64(length), p.StrictLayout)
	target, err := ctx.ClaimOwnedRelPtr(rel, full)
	if err != nil {
		return NodeView{}, err
	}

	return NodeView{
		Pos:     target,
		IsInner: isInner,
		Len:     length,
		Ptr:     ptr,
		tailPos: target + HeaderSize,
	}, nil
}

// firstTailKey reads tail[0].key of nv, regardless of whether nv is an
// inner or leaf node. Used to check an inner entry's key against the
// first key of the subtree it points to.
func (p Params[K, V]) firstTailKey(ctx *archcontext.Context, nv NodeView) (K, error) {
	if nv.IsInner {
		return p.InnerEntryKey(ctx, nv, 0)
	}
	return p.LeafEntryKey(ctx, nv, 0)
}
