// Package checker defines the byte-check protocol that every archived
// type implements: given a candidate position into the buffer and the
// validation context, either confirm the bytes encode a well-formed
// value of T or report an error.
//
// Concrete element checkers for keys/values normally live alongside the
// archived types they validate. The primitives in this package give
// internal/btreemap something concrete to validate against in tests;
// Uint64 is also used by internal/btreemap to read node meta words and
// the map length, and by the validate command as its key/value checker.
package checker

import (
	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
	"github.com/deploymenttheory/go-rkarchive/internal/types"
)

// ByteChecker validates the bytes at pos in ctx's buffer and, on
// success, decodes the value of T stored there. It never claims memory
// itself — composite checkers (such as internal/btreemap's node
// classification) are responsible for calling the context's claim/bounds operations
// around any recursive pointer field before delegating to a ByteChecker
// for the pointee.
type ByteChecker[T any] interface {
	CheckBytes(ctx *archcontext.Context, pos uint64) (T, error)
}

// RootChecker is a ByteChecker that additionally knows its own layout,
// which an entry point needs up front to bounds-check the root position
// before it can invoke the check itself.
type RootChecker[T any] interface {
	ByteChecker[T]
	RootLayout() types.Layout
}

// Func adapts a plain function to the ByteChecker interface.
type Func[T any] func(ctx *archcontext.Context, pos uint64) (T, error)

// CheckBytes implements ByteChecker.
func (f Func[T]) CheckBytes(ctx *archcontext.Context, pos uint64) (T, error) {
	return f(ctx, pos)
}
