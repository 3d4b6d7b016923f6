package lite3

import (
	"encoding/binary"

	"github.com/lite3io/lite3/internal/status"
)

// Bytes is a generation-checked handle to a Bytes or String value's
// payload: (generation, length, offset).
// Resolving it after the arena's generation has advanced returns
// MutatedBuffer instead of silently aliasing moved or repurposed
// memory.
type Bytes struct {
	gen    uint32
	offset int
	length int
}

// Resolve returns the live payload slice, or MutatedBuffer if the
// arena has mutated since the handle was taken.
func (h Bytes) Resolve(b *Buffer) ([]byte, status.Status) {
	if b.Generation() != h.gen {
		return nil, status.MutatedBuffer
	}
	return b.buf[h.offset : h.offset+h.length], status.None
}

// String is the String-typed counterpart of Bytes. On disk a String
// value's payload carries a trailing NUL after its content, with the
// length prefix counting it; the handle's length hides that NUL so
// Resolve returns exactly the content the caller wrote.
type String struct{ b Bytes }

// Resolve returns the live string payload, or MutatedBuffer.
func (h String) Resolve(buf *Buffer) (string, status.Status) {
	raw, st := h.b.Resolve(buf)
	if !st.Ok() {
		return "", st
	}
	return string(raw), status.None
}

func bytesHandleAt(buf []byte, gen uint32, tagOffset int) Bytes {
	n := binary.LittleEndian.Uint32(buf[tagOffset+1 : tagOffset+5])
	return Bytes{gen: gen, offset: tagOffset + 5, length: int(n)}
}

// stringHandleAt resolves a String value's on-disk payload, whose
// length prefix counts a trailing NUL the content itself never
// carries — the returned handle's length is n-1 so Resolve never
// exposes that NUL to callers.
func stringHandleAt(buf []byte, gen uint32, tagOffset int) Bytes {
	n := binary.LittleEndian.Uint32(buf[tagOffset+1 : tagOffset+5])
	return Bytes{gen: gen, offset: tagOffset + 5, length: int(n) - 1}
}
