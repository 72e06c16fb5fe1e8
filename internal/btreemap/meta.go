package btreemap

import "github.com/deploymenttheory/go-rkarchive/internal/types"

// SplitMeta unpacks a node's meta word into its is-inner flag and tail
// entry count: the top bit is the inner flag, the remaining bits hold
// the entry count.
func SplitMeta(meta uint64) (isInner bool, length int) {
	isInner = meta>>types.MetaInnerFlagBit != 0
	length = int(meta & types.MetaLenMask)
	return isInner, length
}

// PackMeta packs an is-inner flag and entry count into a node meta word.
// It mirrors SplitMeta and exists primarily for tests that need to build
// a validator-shaped buffer by hand.
func PackMeta(isInner bool, length int) uint64 {
	meta := uint64(length) & types.MetaLenMask
	if isInner {
		meta |= uint64(1) << types.MetaInnerFlagBit
	}
	return meta
}
