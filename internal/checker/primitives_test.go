package checker

import (
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-rkarchive/internal/archcontext"
)

func TestUint64CheckBytes(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[8:], 0xDEADBEEF)
	ctx := archcontext.NewContext(buf)

	got, err := Uint64.CheckBytes(ctx, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %x, want %x", got, 0xDEADBEEF)
	}
}

func TestUint64CheckBytesOverrun(t *testing.T) {
	ctx := archcontext.NewContext(make([]byte, 4))
	if _, err := Uint64.CheckBytes(ctx, 0); err == nil {
		t.Fatal("expected overrun error")
	}
}

func TestFixedStringTrimsPadding(t *testing.T) {
	buf := []byte("hello\x00\x00\x00")
	ctx := archcontext.NewContext(buf)

	checker := FixedString(8)
	got, err := checker.CheckBytes(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}
