// Package archive exposes the validator's two entry points. Both
// bounds-check the root position, restrict the buffer to the region the
// root may point into, run the root's byte-check, and release that
// restriction before declaring the buffer valid.
package archive

import (
	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
	"github.com/deploymenttheory/go-rkarchive/internal/checker"
	"github.com/deploymenttheory/go-rkarchive/internal/config"
)

// SharedAwareChecker is implemented by a RootChecker that knows how to
// validate itself against a SharedContext, deduplicating substructures
// it has already seen. CheckArchivedRoot and CheckArchivedValueAt use
// this path automatically when cfg.SharedPointers is set and rc
// implements it; otherwise they fall back to the plain ByteChecker path.
type SharedAwareChecker[T any] interface {
	checker.RootChecker[T]
	CheckBytesShared(ctx *archcontext.SharedContext, pos uint64) (T, error)
}

// CheckArchivedRoot validates a root object located at the end of buf,
// at position len(buf) - rc.RootLayout().Size.
func CheckArchivedRoot[T any](buf []byte, rc checker.RootChecker[T], cfg *config.Config) (T, error) {
	rootStart := uint64(len(buf)) - rc.RootLayout().Size
	return CheckArchivedValueAt(buf, rootStart, rc, cfg)
}

// CheckArchivedValueAt validates a root object at a caller-specified
// position within buf.
func CheckArchivedValueAt[T any](buf []byte, pos uint64, rc checker.RootChecker[T], cfg *config.Config) (T, error) {
	var zero T
	ctx := archcontext.NewContext(buf)

	rootStart, err := ctx.CheckPtr(pos, 0, rc.RootLayout())
	if err != nil {
		return zero, err
	}

	tok := ctx.PushPrefixSubtreeRange(rootStart, ctx.Len())

	value, err := checkRoot(ctx, rc, rootStart, cfg)
	if err != nil {
		return zero, err
	}

	if err := ctx.PopPrefixRange(tok); err != nil {
		return zero, err
	}
	if err := ctx.Finish(); err != nil {
		return zero, err
	}
	return value, nil
}

func checkRoot[T any](ctx *archcontext.Context, rc checker.RootChecker[T], pos uint64, cfg *config.Config) (T, error) {
	if cfg != nil && cfg.SharedPointers {
		if sac, ok := rc.(SharedAwareChecker[T]); ok {
			return sac.CheckBytesShared(archcontext.NewSharedContext(ctx), pos)
		}
	}
	return rc.CheckBytes(ctx, pos)
}
