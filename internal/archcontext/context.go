// Package archcontext implements the validation context: stateful
// bookkeeping over a fixed byte buffer that resolves and bounds-checks
// relative pointers, tracks the currently claimable subtree range, and
// records which byte ranges have already been validated.
package archcontext

import (
	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
	"github.com/deploymenttheory/go-rkarchive/internal/relptr"
	"github.com/deploymenttheory/go-rkarchive/internal/types"
)

type rangeKind int

const (
	rangeKindPrefix rangeKind = iota
	rangeKindSuffix
)

// frame records the active range to restore when its push is popped.
type frame struct {
	kind      rangeKind
	restoreLo uint64
	restoreHi uint64
}

// PrefixToken is returned by PushPrefixSubtreeRange and must be handed
// back to PopPrefixRange, in reverse order of all outstanding pushes.
type PrefixToken struct {
	depth int
}

// SuffixToken is the suffix-range counterpart to PrefixToken.
type SuffixToken struct {
	depth int
}

// Context is the validation context for a single buffer. It is not
// safe for concurrent use: one validation call owns it exclusively for
// its whole duration.
type Context struct {
	buf []byte

	lo, hi uint64 // currently active subtree range [lo, hi)
	stack  []frame

	claims *ClaimSet
}

// NewContext creates a validation context over the whole of buf.
func NewContext(buf []byte) *Context {
	return &Context{
		buf:    buf,
		lo:     0,
		hi:     uint64(len(buf)),
		claims: NewClaimSet(),
	}
}

// Len returns the buffer length.
func (c *Context) Len() uint64 {
	return uint64(len(c.buf))
}

// Bytes returns the underlying buffer. Callers must not mutate it.
func (c *Context) Bytes() []byte {
	return c.buf
}

// CheckPtr resolves base+offset, failing with OutOfBounds if the target
// address itself is outside [0, len(buf)), Unaligned if it does not
// satisfy layout.Align, or Overrun if target+layout.Size would run past
// the end of the buffer. It does not claim or check subtree containment.
func (c *Context) CheckPtr(base uint64, offset int64, layout types.Layout) (uint64, error) {
	target := int64(base) + offset
	if target < 0 || uint64(target) >= c.Len() {
		return 0, archerr.Newf(archerr.KindOutOfBounds, "target %d outside buffer [0, %d)", target, c.Len())
	}
	utarget := uint64(target)
	if layout.Align > 1 && utarget%layout.Align != 0 {
		return 0, archerr.Newf(archerr.KindUnaligned, "target %d not aligned to %d", utarget, layout.Align)
	}
	if utarget+layout.Size > c.Len() {
		return 0, archerr.Newf(archerr.KindOverrun, "target %d + size %d exceeds buffer length %d", utarget, layout.Size, c.Len())
	}
	return utarget, nil
}

// CheckRelPtr composes CheckPtr with a RelPtr's own base and offset.
func (c *Context) CheckRelPtr(p relptr.RelPtr, layout types.Layout) (uint64, error) {
	return c.CheckPtr(p.Base, p.Offset, layout)
}

// CheckSubtreePtrBounds asserts that [target, target+size) lies entirely
// inside the currently active subtree range.
func (c *Context) CheckSubtreePtrBounds(target uint64, size uint64) error {
	if target < c.lo || target+size > c.hi {
		return archerr.Newf(archerr.KindSubtreeOutOfRange,
			"range [%d, %d) outside active subtree range [%d, %d)", target, target+size, c.lo, c.hi)
	}
	return nil
}

// CheckSubtreeRelPtr resolves rel and additionally asserts subtree
// containment.
func (c *Context) CheckSubtreeRelPtr(p relptr.RelPtr, layout types.Layout) (uint64, error) {
	target, err := c.CheckRelPtr(p, layout)
	if err != nil {
		return 0, err
	}
	if err := c.CheckSubtreePtrBounds(target, layout.Size); err != nil {
		return 0, err
	}
	return target, nil
}

// ClaimOwnedRelPtr resolves rel, asserts subtree containment, and marks
// [target, target+size) as owned. It fails with DuplicateClaim if that
// region intersects any previously claimed region — no two validated
// objects may share a byte.
func (c *Context) ClaimOwnedRelPtr(p relptr.RelPtr, layout types.Layout) (uint64, error) {
	target, err := c.CheckSubtreeRelPtr(p, layout)
	if err != nil {
		return 0, err
	}
	if !c.claims.Claim(target, target+layout.Size) {
		return 0, archerr.Newf(archerr.KindDuplicateClaim, "range [%d, %d) already claimed", target, target+layout.Size)
	}
	return target, nil
}

// PushPrefixSubtreeRange narrows the active range to [lo, root); after
// the returned token is popped, the active range becomes [end, hi) using
// the previous hi.
func (c *Context) PushPrefixSubtreeRange(root, end uint64) PrefixToken {
	c.stack = append(c.stack, frame{kind: rangeKindPrefix, restoreLo: end, restoreHi: c.hi})
	c.hi = root
	return PrefixToken{depth: len(c.stack)}
}

// PopPrefixRange pops the range pushed by the matching
// PushPrefixSubtreeRange call. It fails with RangePopOutOfOrder if token
// does not identify the top of the combined prefix/suffix stack, or if
// the top of the stack is a suffix frame.
func (c *Context) PopPrefixRange(tok PrefixToken) error {
	f, err := c.popFrame(tok.depth, rangeKindPrefix)
	if err != nil {
		return err
	}
	c.lo = f.restoreLo
	c.hi = f.restoreHi
	return nil
}

// PushSuffixSubtreeRange narrows the active range to [root, hi); after
// the returned token is popped, the active range becomes [lo, start)
// using the previous lo.
func (c *Context) PushSuffixSubtreeRange(start, root uint64) SuffixToken {
	c.stack = append(c.stack, frame{kind: rangeKindSuffix, restoreLo: c.lo, restoreHi: start})
	c.lo = root
	return SuffixToken{depth: len(c.stack)}
}

// PopSuffixRange pops the range pushed by the matching
// PushSuffixSubtreeRange call.
func (c *Context) PopSuffixRange(tok SuffixToken) error {
	f, err := c.popFrame(tok.depth, rangeKindSuffix)
	if err != nil {
		return err
	}
	c.lo = f.restoreLo
	c.hi = f.restoreHi
	return nil
}

func (c *Context) popFrame(depth int, kind rangeKind) (frame, error) {
	if depth != len(c.stack) {
		return frame{}, archerr.New(archerr.KindRangePopOutOfOrder)
	}
	top := c.stack[len(c.stack)-1]
	if top.kind != kind {
		return frame{}, archerr.New(archerr.KindRangePopOutOfOrder)
	}
	c.stack = c.stack[:len(c.stack)-1]
	return top, nil
}

// Finish succeeds only when both range stacks are empty (no outstanding
// pushes) and the claim set's internal invariant holds.
func (c *Context) Finish() error {
	if len(c.stack) != 0 {
		return archerr.Newf(archerr.KindRangePopOutOfOrder, "%d unpopped subtree range(s) remain", len(c.stack))
	}
	if !c.claims.consistent() {
		return archerr.New(archerr.KindDuplicateClaim)
	}
	return nil
}
