package archcontext

import (
	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
	"github.com/google/uuid"
)

// TypeID is a stable, portable fingerprint for a Go type, used by
// SharedContext to detect when the same address is claimed under two
// different archived types. It is derived via uuid.NewSHA1 over the
// type's name so two processes validating the same buffer agree on it
// without sharing any in-memory state.
type TypeID = uuid.UUID

// NewTypeID derives a stable TypeID from a type name (typically
// reflect.TypeOf(v).String()).
func NewTypeID(typeName string) TypeID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(typeName))
}

// SharedContext extends Context with optional shared-substructure
// support: the first sighting of an (address, TypeID) pair validates
// normally; subsequent sightings of the same pair short-circuit instead
// of re-validating or re-claiming the region.
type SharedContext struct {
	*Context
	seen map[uint64]TypeID
}

// NewSharedContext wraps an existing Context with shared-pointer
// deduplication.
func NewSharedContext(c *Context) *SharedContext {
	return &SharedContext{Context: c, seen: make(map[uint64]TypeID)}
}

// CheckSharedPtr records the first occurrence of (target, id) and
// returns (target, true). Subsequent occurrences of the same address
// with the same id return (target, false) — already validated, the
// caller should not recurse into it again. A previously seen address
// claimed under a different id fails with SharedTypeMismatch.
func (s *SharedContext) CheckSharedPtr(target uint64, id TypeID) (uint64, bool, error) {
	if seenID, ok := s.seen[target]; ok {
		if seenID != id {
			return 0, false, archerr.Newf(archerr.KindSharedTypeMismatch,
				"address %d previously claimed with a different type", target)
		}
		return target, false, nil
	}
	s.seen[target] = id
	return target, true, nil
}
