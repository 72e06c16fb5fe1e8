package checker

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
	"github.com/deploymenttheory/go-rkarchive/internal/archerr"
)

// Uint64 validates an 8-byte little-endian unsigned integer at pos.
var Uint64 ByteChecker[uint64] = Func[uint64](func(ctx *archcontext.Context, pos uint64) (uint64, error) {
	buf := ctx.Bytes()
	if pos+8 > uint64(len(buf)) {
		return 0, archerr.New(archerr.KindOverrun)
	}
	return binary.LittleEndian.Uint64(buf[pos : pos+8]), nil
})

// FixedString validates a width-byte fixed-length string at pos,
// trimming trailing NUL padding. width is fixed per call site; this is
// a stand-in checker used only to exercise the byte-check protocol in
// tests, not a general archived-string format.
func FixedString(width uint64) ByteChecker[string] {
	return Func[string](func(ctx *archcontext.Context, pos uint64) (string, error) {
		buf := ctx.Bytes()
		if pos+width > uint64(len(buf)) {
			return "", archerr.New(archerr.KindOverrun)
		}
		raw := buf[pos : pos+width]
		end := len(raw)
		for end > 0 && raw[end-1] == 0 {
			end--
		}
		return string(raw[:end]), nil
	})
}
