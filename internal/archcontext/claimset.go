package archcontext

import "sort"

// interval is a half-open byte range [Lo, Hi) that has been claimed as
// owned by some already-validated subtree.
type interval struct {
	lo, hi uint64
}

// ClaimSet tracks the owned regions of a buffer as a sorted-by-start
// slice of disjoint intervals: binary search locates the insertion
// point in O(log n), and overlap can only occur against the immediate
// neighbor there since the set is an invariant-preserving partition.
type ClaimSet struct {
	owned []interval
}

// NewClaimSet returns an empty claim set.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{}
}

// Claim attempts to mark [lo, hi) as owned. It fails if the range
// overlaps any existing owned range — no two validated objects may
// share a byte.
func (c *ClaimSet) Claim(lo, hi uint64) bool {
	if lo >= hi {
		return true // zero-length claims (empty tails) never conflict
	}
	i := sort.Search(len(c.owned), func(i int) bool {
		return c.owned[i].hi > lo
	})
	if i < len(c.owned) && c.owned[i].lo < hi {
		return false // overlaps the next interval at or after lo
	}
	c.owned = append(c.owned, interval{})
	copy(c.owned[i+1:], c.owned[i:])
	c.owned[i] = interval{lo: lo, hi: hi}
	return true
}

// Len reports how many disjoint owned intervals are currently tracked.
func (c *ClaimSet) Len() int {
	return len(c.owned)
}

// consistent reports whether every owned interval is well-formed and the
// slice remains sorted and pairwise disjoint. Used by Context.Finish to
// assert the claim set's invariant before declaring validation complete.
func (c *ClaimSet) consistent() bool {
	for i, iv := range c.owned {
		if iv.lo >= iv.hi {
			return false
		}
		if i > 0 && c.owned[i-1].hi > iv.lo {
			return false
		}
	}
	return true
}
