// Package layout implements the archive's layout oracle: given a typed
// pointer's metadata, it computes the (size, alignment) footprint of the
// pointee, including the trailing tail array of a B-tree node.
package layout

import "github.com/deploymenttheory/go-rkarchive/internal/types"

// Sized returns the static layout of a fixed-size type.
func Sized(size, align uint64) types.Layout {
	return types.Layout{Size: size, Align: align}
}

// SliceLayout returns the layout of a slice whose length comes from a
// relative pointer's metadata rather than being encoded inline: total
// size is elementSize * length.
func SliceLayout(elementSize, elementAlign, length uint64) types.Layout {
	return types.Layout{Size: elementSize * length, Align: elementAlign}
}

// StringLayout returns the layout of an archived string's byte tail: a
// byte array of the given length, one-byte aligned.
func StringLayout(length uint64) types.Layout {
	return types.Layout{Size: length, Align: 1}
}

// Extend appends tail to header, returning the combined layout: the tail
// starts at the first offset that is a multiple of tail.Align at or
// after header.Size, and the combined alignment is the larger of the
// two.
func Extend(header, tail types.Layout) types.Layout {
	align := header.Align
	if tail.Align > align {
		align = tail.Align
	}
	tailStart := alignUp(header.Size, tail.Align)
	return types.Layout{Size: tailStart + tail.Size, Align: align}
}

func alignUp(size, align uint64) uint64 {
	if align == 0 {
		return size
	}
	rem := size % align
	if rem == 0 {
		return size
	}
	return size + (align - rem)
}

// NodeLayout computes the layout of a B-tree node: its fixed header
// extended by entryCount entries of entryLayout, optionally padded up to
// the combined alignment when strict is true (some serializers round
// every archived struct's size up to its alignment; others don't — the
// caller picks which convention the buffer under test follows).
func NodeLayout(header types.Layout, entryLayout types.Layout, entryCount uint64, strict bool) types.Layout {
	tail := types.Layout{Size: entryLayout.Size * entryCount, Align: entryLayout.Align}
	combined := Extend(header, tail)
	if strict {
		combined = combined.PadToAlign()
	}
	return combined
}
