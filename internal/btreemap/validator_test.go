package btreemap

import (
	"errors"
	"testing"

	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
)

func TestValidTwoLeafMapRoundTrips(t *testing.T) {
	buf, headerPos := twoLeafMap()
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	view, err := p.CheckBytes(ctx, headerPos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	entries, err := view.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	want := []Entry[uint64, uint64]{{1, 10}, {2, 20}, {3, 30}, {4, 40}}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestTamperedLengthFailsReconciliation(t *testing.T) {
	buf, headerPos := twoLeafMap()
	putU64(buf, headerPos, 5) // declared len should be 4
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindLengthMismatch)
}

func TestUnsortedLeafEntriesDetected(t *testing.T) {
	buf, headerPos := twoLeafMap()
	// swap the two keys in leaf A
	putU64(buf, 16, 2)
	putU64(buf, 16+8, 20)
	putU64(buf, 16+16, 1)
	putU64(buf, 16+16+8, 10)
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindUnsortedLeafNodeEntries)
}

func TestBrokenForwardPointerDetected(t *testing.T) {
	buf, headerPos := twoLeafMap()
	putRelPtr(buf, 0+8, nullTarget) // zero leaf A's forward pointer
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindUnlinkedLeafNode)
}

func TestLastLeafForwardPointerMustBeNull(t *testing.T) {
	buf, headerPos := twoLeafMap()
	putRelPtr(buf, 48+8, 0) // point leaf B's forward pointer at leaf A instead of null
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindLastLeafForwardPointerNotNull)
}

func TestMismatchedInnerChildKeyDetected(t *testing.T) {
	buf, headerPos := twoLeafMap()
	putU64(buf, 96+16, 99) // inner entry's key no longer matches leaf B's first key
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindMismatchedInnerChildKey)
}

func TestOutOfBoundsChildPointerDetected(t *testing.T) {
	buf, headerPos := twoLeafMap()
	putRelPtr(buf, 96+8, 10_000) // left-edge child points far past the buffer
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindOutOfBounds)
}

func TestOverlappingChildrenRejected(t *testing.T) {
	buf, headerPos := twoLeafMap()
	// point the inner entry's child at leaf A too, so it overlaps the
	// left-edge child's already-claimed region.
	putRelPtr(buf, 96+16+8, 0)
	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindDuplicateClaim)
}

func TestTooFewLeafEntriesRejected(t *testing.T) {
	// A single degenerate (non-root) leaf referenced as the left-edge
	// child of an inner node must still meet the minimum.
	const (
		emptyLeafPos = 0
		leafBPos     = 16
		innerPos     = 64
		headerPos    = 96
		totalLen     = 112
	)
	buf := make([]byte, totalLen)
	writeLeaf(buf, emptyLeafPos, nil, nil, leafBPos)
	writeLeaf(buf, leafBPos, []uint64{1}, []uint64{1}, nullTarget)
	writeInner(buf, innerPos, emptyLeafPos, []innerEntry{{key: 1, target: leafBPos}})
	writeHeader(buf, headerPos, 1, innerPos)

	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	_, err := p.CheckBytes(ctx, headerPos)
	assertKind(t, err, archerr.KindTooFewLeafNodeEntries)
}

func TestEmptyRootLeafIsAccepted(t *testing.T) {
	const headerPos = 16
	buf := make([]byte, headerPos+16)
	writeLeaf(buf, 0, nil, nil, nullTarget)
	writeHeader(buf, headerPos, 0, 0)

	ctx := archcontext.NewContext(buf)
	p := uint64Params()

	view, err := p.CheckBytes(ctx, headerPos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Len != 0 {
		t.Errorf("Len = %d, want 0", view.Len)
	}
}

func assertKind(t *testing.T, err error, want archerr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %s, got nil", want)
	}
	var ae *archerr.Error
	if errors.As(err, &ae) {
		if ae.Kind == want {
			return
		}
		t.Fatalf("got error kind %s, want %s (%v)", ae.Kind, want, err)
	}
	t.Fatalf("error %v is not an *archerr.Error", err)
}
