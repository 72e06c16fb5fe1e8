package archive

import (
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-rkarchive/internal/btreemap"
	"github.com/deploymenttheory/go-rkarchive/internal/checker"
	"github.com/deploymenttheory/go-rkarchive/internal/config"
	"github.com/stretchr/testify/require"
)

func uint64MapParams() btreemap.Params[uint64, uint64] {
	return btreemap.Params[uint64, uint64]{
		KeySize:      8,
		KeyAlign:     8,
		ValueSize:    8,
		ValueAlign:   8,
		KeyChecker:   checker.Uint64,
		ValueChecker: checker.Uint64,
	}
}

// singleLeafArchive builds a one-leaf map {5: 55} with the map header
// placed at the very end of the buffer, as CheckArchivedRoot expects.
func singleLeafArchive(declaredLen uint64) []byte {
	const (
		leafPos   = 0
		headerPos = 32
		totalLen  = 48
	)
	buf := make([]byte, totalLen)
	binary.LittleEndian.PutUint64(buf[leafPos:], btreemap.PackMeta(false, 1))
	binary.LittleEndian.PutUint64(buf[leafPos+8:], 0) // null forward pointer
	binary.LittleEndian.PutUint64(buf[leafPos+16:], 5)
	binary.LittleEndian.PutUint64(buf[leafPos+24:], 55)

	binary.LittleEndian.PutUint64(buf[headerPos:], declaredLen)
	binary.LittleEndian.PutUint64(buf[headerPos+8:], uint64(int64(leafPos)-int64(headerPos+8)))
	return buf
}

func TestCheckArchivedRootSucceeds(t *testing.T) {
	buf := singleLeafArchive(1)
	cfg := &config.Config{}

	view, err := CheckArchivedRoot[*btreemap.MapView[uint64, uint64]](buf, uint64MapParams(), cfg)
	require.NoError(t, err)

	entries, err := view.Entries()
	require.NoError(t, err)
	require.Equal(t, []btreemap.Entry[uint64, uint64]{{Key: 5, Value: 55}}, entries)
}

func TestCheckArchivedRootRejectsTamperedLength(t *testing.T) {
	buf := singleLeafArchive(2)
	cfg := &config.Config{}

	_, err := CheckArchivedRoot[*btreemap.MapView[uint64, uint64]](buf, uint64MapParams(), cfg)
	require.Error(t, err)
}

func TestCheckArchivedValueAtSucceedsAtExplicitPosition(t *testing.T) {
	buf := singleLeafArchive(1)
	cfg := &config.Config{}

	view, err := CheckArchivedValueAt[*btreemap.MapView[uint64, uint64]](buf, 32, uint64MapParams(), cfg)
	require.NoError(t, err)
	require.EqualValues(t, 1, view.EntryCount())
	require.Equal(t, 1, view.LeafCount())
}
