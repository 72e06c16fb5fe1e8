// Package relptr implements the archive's relative pointer: the sole
// inter-node link inside a validated buffer. A RelPtr never owns or
// dereferences memory itself — it only carries the raw fields needed for
// a validation context to resolve and bounds-check it.
package relptr

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
)

// Metadata carries the extra information needed to determine the size of
// an unsized pointee (for example, a tail-array length). Sized pointees
// use the zero value.
type Metadata struct {
	// Len is the element count for slice-like tails. Zero for sized T.
	Len uint64
}

// RelPtr is a relative pointer stored at some position inside the
// archive buffer. Base is the buffer offset at which the pointer itself
// is stored (i.e. &self); Offset is the signed displacement to the
// pointee. An Offset of zero denotes a null pointer.
type RelPtr struct {
	Base     uint64
	Offset   int64
	Metadata Metadata
}

// IsNull reports whether the pointer is the null relative pointer.
func (p RelPtr) IsNull() bool {
	return p.Offset == 0
}

// Target returns the absolute buffer address the pointer resolves to.
// Callers must still bounds-check the result before dereferencing it —
// Target performs no validation by itself.
func (p RelPtr) Target() int64 {
	return int64(p.Base) + p.Offset
}

// OffsetWidth and MetadataWidth are the encoded sizes in bytes of a
// RelPtr's offset field and of its optional metadata field. Both fields
// are always encoded little-endian.
const (
	OffsetWidth   = 8
	MetadataWidth = 8
)

// Decode reads a RelPtr's raw fields out of data at the given base
// address, without dereferencing the pointee. hasMetadata controls
// whether a trailing 8-byte length field is present (unsized T).
//
// Decode validates only the shape of the encoded offset/metadata, never
// the pointee. Any further validation (bounds, alignment, overrun) is
// the validation context's job.
func Decode(data []byte, base uint64, hasMetadata bool) (RelPtr, error) {
	width := OffsetWidth
	if hasMetadata {
		width += MetadataWidth
	}
	if base+uint64(width) > uint64(len(data)) {
		return RelPtr{}, archerr.ErrTruncated
	}
	off := int64(binary.LittleEndian.Uint64(data[base : base+OffsetWidth]))
	ptr := RelPtr{Base: base, Offset: off}
	if hasMetadata {
		ptr.Metadata.Len = binary.LittleEndian.Uint64(data[base+OffsetWidth : base+uint64(width)])
	}
	return ptr, nil
}

// Encode writes a RelPtr's raw fields into data at p.Base. It is provided
// only for tests that need to build a validator-shaped buffer by hand;
// this package does not implement a writer/serializer.
func Encode(data []byte, p RelPtr, hasMetadata bool) {
	binary.LittleEndian.PutUint64(data[p.Base:p.Base+OffsetWidth], uint64(p.Offset))
	if hasMetadata {
		binary.LittleEndian.PutUint64(data[p.Base+OffsetWidth:p.Base+OffsetWidth+MetadataWidth], p.Metadata.Len)
	}
}
