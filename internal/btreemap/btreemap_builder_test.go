package btreemap

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-rkarchive/internal/checker"
)

// Fixed-width uint64 key/value map used by the validator tests in this package.
// Real archived keys/values would use whatever element checkers the
// caller's types provide; these primitives are enough to exercise every
// structural invariant without depending on another package's codec.
func uint64Params() Params[uint64, uint64] {
	return Params[uint64, uint64]{
		KeySize:      8,
		KeyAlign:     8,
		ValueSize:    8,
		ValueAlign:   8,
		KeyChecker:   checker.Uint64,
		ValueChecker: checker.Uint64,
	}
}

const (
	nullTarget = ^uint64(0) // sentinel meaning "encode a null relative pointer"
)

func putU64(buf []byte, pos uint64, v uint64) {
	binary.LittleEndian.PutUint64(buf[pos:pos+8], v)
}

// putRelPtr encodes a relative pointer stored at storedAt, pointing at
// target (or null if target == nullTarget).
func putRelPtr(buf []byte, storedAt uint64, target uint64) {
	var offset int64
	if target != nullTarget {
		offset = int64(target) - int64(storedAt)
	}
	binary.LittleEndian.PutUint64(buf[storedAt:storedAt+8], uint64(offset))
}

// writeLeaf writes a leaf node at pos: meta, forward pointer, then
// (key, value) pairs. Returns the node's total encoded size.
func writeLeaf(buf []byte, pos uint64, keys, values []uint64, fwdTarget uint64) uint64 {
	putU64(buf, pos, PackMeta(false, len(keys)))
	putRelPtr(buf, pos+8, fwdTarget)
	tail := pos + HeaderSize
	for i := range keys {
		putU64(buf, tail+uint64(i)*16, keys[i])
		putU64(buf, tail+uint64(i)*16+8, values[i])
	}
	return HeaderSize + uint64(len(keys))*16
}

type innerEntry struct {
	key    uint64
	target uint64
}

// writeInner writes an inner node at pos: meta, left-edge child pointer,
// then (key, child pointer) entries. Returns the node's encoded size.
func writeInner(buf []byte, pos uint64, leftTarget uint64, entries []innerEntry) uint64 {
	putU64(buf, pos, PackMeta(true, len(entries)))
	putRelPtr(buf, pos+8, leftTarget)
	tail := pos + HeaderSize
	for i, e := range entries {
		putU64(buf, tail+uint64(i)*16, e.key)
		putRelPtr(buf, tail+uint64(i)*16+8, e.target)
	}
	return HeaderSize + uint64(len(entries))*16
}

// writeHeader writes the map header (len, root pointer) at pos.
func writeHeader(buf []byte, pos uint64, length uint64, rootTarget uint64) {
	putU64(buf, pos, length)
	putRelPtr(buf, pos+8, rootTarget)
}

// twoLeafMap builds a minimal valid two-leaf, one-level-inner archive:
//
//	leaf A [1:10, 2:20] -> leaf B [3:30, 4:40] -> null
//	inner root: left=A, entries=[{key:3, child:B}]
//	header: len=4, root=inner
//
// Returns the buffer and the header's position.
func twoLeafMap() ([]byte, uint64) {
	const (
		leafAPos  = 0
		leafBPos  = 48
		innerPos  = 96
		headerPos = 128
		totalLen  = 144
	)
	buf := make([]byte, totalLen)
	writeLeaf(buf, leafAPos, []uint64{1, 2}, []uint64{10, 20}, leafBPos)
	writeLeaf(buf, leafBPos, []uint64{3, 4}, []uint64{30, 40}, nullTarget)
	writeInner(buf, innerPos, leafAPos, []innerEntry{{key: 3, target: leafBPos}})
	writeHeader(buf, headerPos, 4, innerPos)
	return buf, headerPos
}
