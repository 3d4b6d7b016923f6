package lite3

import (
	"encoding/binary"
	"math"

	"github.com/lite3io/lite3/internal/arena"
	"github.com/lite3io/lite3/internal/node"
	"github.com/lite3io/lite3/internal/status"
)

// Cursor addresses a single Object or Array node within a Buffer's
// arena. The document root is Cursor{offset: 0}; every nested
// Object/Array value reachable from it has its own Cursor over the
// same Buffer, sharing its generation and write frontier.
type Cursor struct {
	buf    *Buffer
	offset int
}

// Root returns a Cursor over the document's top-level container.
func (b *Buffer) Root() Cursor { return Cursor{buf: b, offset: 0} }

// Tag reports whether this container is TagObject or TagArray.
func (c Cursor) Tag() byte { return node.At(c.buf.buf, c.offset).TypeTag() }

// Count returns this container's own total entry count: every
// container's top node tracks its own size_kc size field, which is
// what lets Array bounds-checking and append work without a tree-wide
// scan.
func (c Cursor) Count() uint32 {
	return node.At(c.buf.buf, c.offset).Size()
}

// Exists reports whether key is present in this Object.
func (c Cursor) Exists(key string) bool {
	_, st := c.lookup(key)
	return st.Ok()
}

// ExistsIndex reports whether index is present in this Array.
func (c Cursor) ExistsIndex(index int) bool {
	_, st := c.lookupIndex(index)
	return st.Ok()
}

// TypeOf returns the value tag stored at key.
func (c Cursor) TypeOf(key string) (byte, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return 0, st
	}
	return c.buf.buf[off], status.None
}

// TypeOfIndex returns the value tag stored at index.
func (c Cursor) TypeOfIndex(index int) (byte, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return 0, st
	}
	return c.buf.buf[off], status.None
}

func (c Cursor) lookup(key string) (int, status.Status) {
	h := node.DJB2([]byte(key))
	return node.Lookup(c.buf.buf, c.offset, h, []byte(key), false)
}

func (c Cursor) lookupIndex(index int) (int, status.Status) {
	return node.Lookup(c.buf.buf, c.offset, uint32(index), nil, true) //nolint:gosec // indices fit uint32 by construction (MaxBuf = 1GiB)
}

// --- scalar getters (Object) ---

func (c Cursor) GetNull(key string) status.Status {
	off, st := c.lookup(key)
	if !st.Ok() {
		return st
	}
	if c.buf.buf[off] != TagNull {
		return status.ValueKindDoesNotMatch
	}
	return status.None
}

func (c Cursor) GetBool(key string) (bool, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return false, st
	}
	if c.buf.buf[off] != TagBool {
		return false, status.ValueKindDoesNotMatch
	}
	return c.buf.buf[off+1] != 0, status.None
}

func (c Cursor) GetI64(key string) (int64, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return 0, st
	}
	if c.buf.buf[off] != TagI64 {
		return 0, status.ValueKindDoesNotMatch
	}
	return int64(binary.LittleEndian.Uint64(c.buf.buf[off+1 : off+9])), status.None //nolint:gosec // round-trips the bits written by SetI64
}

func (c Cursor) GetF64(key string) (float64, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return 0, st
	}
	if c.buf.buf[off] != TagF64 {
		return 0, status.ValueKindDoesNotMatch
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(c.buf.buf[off+1 : off+9])), status.None
}

func (c Cursor) GetString(key string) (String, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return String{}, st
	}
	if c.buf.buf[off] != TagString {
		return String{}, status.ValueKindDoesNotMatch
	}
	return String{b: stringHandleAt(c.buf.buf, c.buf.Generation(), off)}, status.None
}

func (c Cursor) GetBytes(key string) (Bytes, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return Bytes{}, st
	}
	if c.buf.buf[off] != TagBytes {
		return Bytes{}, status.ValueKindDoesNotMatch
	}
	return bytesHandleAt(c.buf.buf, c.buf.Generation(), off), status.None
}

func (c Cursor) GetObject(key string) (Cursor, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return Cursor{}, st
	}
	if c.buf.buf[off] != TagObject {
		return Cursor{}, status.ExpectedObject
	}
	return Cursor{buf: c.buf, offset: arena.AlignUp(off + 1)}, status.None
}

func (c Cursor) GetArray(key string) (Cursor, status.Status) {
	off, st := c.lookup(key)
	if !st.Ok() {
		return Cursor{}, st
	}
	if c.buf.buf[off] != TagArray {
		return Cursor{}, status.ExpectedArray
	}
	return Cursor{buf: c.buf, offset: arena.AlignUp(off + 1)}, status.None
}

// --- scalar getters (Array) ---

func (c Cursor) GetIndexedI64(index int) (int64, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return 0, st
	}
	if c.buf.buf[off] != TagI64 {
		return 0, status.ValueKindDoesNotMatch
	}
	return int64(binary.LittleEndian.Uint64(c.buf.buf[off+1 : off+9])), status.None //nolint:gosec
}

func (c Cursor) GetIndexedF64(index int) (float64, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return 0, st
	}
	if c.buf.buf[off] != TagF64 {
		return 0, status.ValueKindDoesNotMatch
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(c.buf.buf[off+1 : off+9])), status.None
}

func (c Cursor) GetIndexedBool(index int) (bool, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return false, st
	}
	if c.buf.buf[off] != TagBool {
		return false, status.ValueKindDoesNotMatch
	}
	return c.buf.buf[off+1] != 0, status.None
}

func (c Cursor) GetIndexedString(index int) (String, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return String{}, st
	}
	if c.buf.buf[off] != TagString {
		return String{}, status.ValueKindDoesNotMatch
	}
	return String{b: stringHandleAt(c.buf.buf, c.buf.Generation(), off)}, status.None
}

func (c Cursor) GetIndexedBytes(index int) (Bytes, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return Bytes{}, st
	}
	if c.buf.buf[off] != TagBytes {
		return Bytes{}, status.ValueKindDoesNotMatch
	}
	return bytesHandleAt(c.buf.buf, c.buf.Generation(), off), status.None
}

func (c Cursor) GetIndexedObject(index int) (Cursor, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return Cursor{}, st
	}
	if c.buf.buf[off] != TagObject {
		return Cursor{}, status.ExpectedObject
	}
	return Cursor{buf: c.buf, offset: arena.AlignUp(off + 1)}, status.None
}

func (c Cursor) GetIndexedArray(index int) (Cursor, status.Status) {
	off, st := c.lookupIndex(index)
	if !st.Ok() {
		return Cursor{}, st
	}
	if c.buf.buf[off] != TagArray {
		return Cursor{}, status.ExpectedArray
	}
	return Cursor{buf: c.buf, offset: arena.AlignUp(off + 1)}, status.None
}

// --- setters ---

// setKeyed is the shared implementation behind every keyed Set*
// method. It runs through this Buffer's grow policy (identity for
// FixedBuffer, grow-and-retry for GrowableBuffer), so a failed attempt
// is guaranteed to have made no observable change before any retry.
func (c Cursor) setKeyed(key string, spec node.ValueSpec) (int, status.Status) {
	if key == "" {
		return 0, status.ExpectedNonEmptyKey
	}
	if c.Tag() != TagObject {
		return 0, status.ExpectedObject
	}
	h := node.DJB2([]byte(key))
	var res node.SetResult
	st := c.buf.retry(func() status.Status {
		var innerSt status.Status
		res, innerSt = node.Set(c.buf.buf, c.buf.position, c.offset, h, []byte(key), false, spec)
		return innerSt
	})
	if !st.Ok() {
		return 0, st
	}
	c.buf.position = res.Position
	if spec.IsContainer {
		return res.ChildOffset, status.None
	}
	return res.ValueTagOffset, status.None
}

// --- keyed setters (Object) ---

func (c Cursor) SetNull(key string) status.Status {
	_, st := c.setKeyed(key, node.EncodeScalar(TagNull, nil))
	return st
}

func (c Cursor) SetBool(key string, v bool) status.Status {
	_, st := c.setKeyed(key, node.EncodeScalar(TagBool, boolPayload(v)))
	return st
}

func (c Cursor) SetI64(key string, v int64) status.Status {
	_, st := c.setKeyed(key, node.EncodeScalar(TagI64, i64Payload(v)))
	return st
}

func (c Cursor) SetF64(key string, v float64) status.Status {
	_, st := c.setKeyed(key, node.EncodeScalar(TagF64, f64Payload(v)))
	return st
}

func (c Cursor) SetString(key string, v string) status.Status {
	_, st := c.setKeyed(key, node.EncodeScalar(TagString, stringPayload(v)))
	return st
}

func (c Cursor) SetBytes(key string, v []byte) status.Status {
	_, st := c.setKeyed(key, node.EncodeScalar(TagBytes, bytesPayload(v)))
	return st
}

// SetObject creates (or overwrites, discarding prior children) key as
// an empty Object and returns a Cursor over it.
func (c Cursor) SetObject(key string) (Cursor, status.Status) {
	off, st := c.setKeyed(key, node.EncodeContainer(TagObject))
	if !st.Ok() {
		return Cursor{}, st
	}
	return Cursor{buf: c.buf, offset: off}, status.None
}

// SetArray creates (or overwrites) key as an empty Array and returns a
// Cursor over it.
func (c Cursor) SetArray(key string) (Cursor, status.Status) {
	off, st := c.setKeyed(key, node.EncodeContainer(TagArray))
	if !st.Ok() {
		return Cursor{}, st
	}
	return Cursor{buf: c.buf, offset: off}, status.None
}

// --- indexed setters (Array) ---

// SetIndexed* overwrite an existing element; index must already be
// < the array's current length (index == length is an append, done
// only via Append*).

func (c Cursor) SetIndexedNull(index int) status.Status {
	_, st := c.setIndexed(index, false, node.EncodeScalar(TagNull, nil))
	return st
}

func (c Cursor) SetIndexedBool(index int, v bool) status.Status {
	_, st := c.setIndexed(index, false, node.EncodeScalar(TagBool, boolPayload(v)))
	return st
}

func (c Cursor) SetIndexedI64(index int, v int64) status.Status {
	_, st := c.setIndexed(index, false, node.EncodeScalar(TagI64, i64Payload(v)))
	return st
}

func (c Cursor) SetIndexedF64(index int, v float64) status.Status {
	_, st := c.setIndexed(index, false, node.EncodeScalar(TagF64, f64Payload(v)))
	return st
}

func (c Cursor) SetIndexedString(index int, v string) status.Status {
	_, st := c.setIndexed(index, false, node.EncodeScalar(TagString, stringPayload(v)))
	return st
}

func (c Cursor) SetIndexedBytes(index int, v []byte) status.Status {
	_, st := c.setIndexed(index, false, node.EncodeScalar(TagBytes, bytesPayload(v)))
	return st
}

func (c Cursor) SetIndexedObject(index int) (Cursor, status.Status) {
	off, st := c.setIndexed(index, false, node.EncodeContainer(TagObject))
	if !st.Ok() {
		return Cursor{}, st
	}
	return Cursor{buf: c.buf, offset: off}, status.None
}

func (c Cursor) SetIndexedArray(index int) (Cursor, status.Status) {
	off, st := c.setIndexed(index, false, node.EncodeContainer(TagArray))
	if !st.Ok() {
		return Cursor{}, st
	}
	return Cursor{buf: c.buf, offset: off}, status.None
}

// Append* write at the array's current length, growing it by one.

func (c Cursor) AppendNull() status.Status {
	_, st := c.setIndexed(int(c.Count()), true, node.EncodeScalar(TagNull, nil))
	return st
}

func (c Cursor) AppendBool(v bool) status.Status {
	_, st := c.setIndexed(int(c.Count()), true, node.EncodeScalar(TagBool, boolPayload(v)))
	return st
}

func (c Cursor) AppendI64(v int64) status.Status {
	_, st := c.setIndexed(int(c.Count()), true, node.EncodeScalar(TagI64, i64Payload(v)))
	return st
}

func (c Cursor) AppendF64(v float64) status.Status {
	_, st := c.setIndexed(int(c.Count()), true, node.EncodeScalar(TagF64, f64Payload(v)))
	return st
}

func (c Cursor) AppendString(v string) status.Status {
	_, st := c.setIndexed(int(c.Count()), true, node.EncodeScalar(TagString, stringPayload(v)))
	return st
}

func (c Cursor) AppendBytes(v []byte) status.Status {
	_, st := c.setIndexed(int(c.Count()), true, node.EncodeScalar(TagBytes, bytesPayload(v)))
	return st
}

func (c Cursor) AppendObject() (Cursor, status.Status) {
	off, st := c.setIndexed(int(c.Count()), true, node.EncodeContainer(TagObject))
	if !st.Ok() {
		return Cursor{}, st
	}
	return Cursor{buf: c.buf, offset: off}, status.None
}

func (c Cursor) AppendArray() (Cursor, status.Status) {
	off, st := c.setIndexed(int(c.Count()), true, node.EncodeContainer(TagArray))
	if !st.Ok() {
		return Cursor{}, st
	}
	return Cursor{buf: c.buf, offset: off}, status.None
}

// setIndexed bounds-checks index against this array's current length
// before delegating to the node engine. allowEqual permits index ==
// size (the append path); set-by-index requires strict index < size.
func (c Cursor) setIndexed(index int, allowEqual bool, spec node.ValueSpec) (int, status.Status) {
	if c.Tag() != TagArray {
		return 0, status.ExpectedArray
	}
	if index < 0 {
		return 0, status.ArrayIndexOutOfBounds
	}
	size := int(node.At(c.buf.buf, c.offset).Size())
	if allowEqual {
		if index > size {
			return 0, status.ArrayIndexOutOfBounds
		}
	} else if index >= size {
		return 0, status.ArrayIndexOutOfBounds
	}
	var res node.SetResult
	st := c.buf.retry(func() status.Status {
		var innerSt status.Status
		res, innerSt = node.Set(c.buf.buf, c.buf.position, c.offset, uint32(index), nil, true, spec) //nolint:gosec // indices fit uint32 by construction
		return innerSt
	})
	if !st.Ok() {
		return 0, st
	}
	c.buf.position = res.Position
	if spec.IsContainer {
		return res.ChildOffset, status.None
	}
	return res.ValueTagOffset, status.None
}

func i64Payload(v int64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v)) //nolint:gosec // exact bit round-trip, not a numeric conversion
	return b[:]
}

func f64Payload(v float64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return b[:]
}

func boolPayload(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func bytesPayload(v []byte) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(v))) //nolint:gosec // MaxBuf bounds length to 1GiB
	return append(b[:], v...)
}

// stringPayload encodes a String value's on-disk payload: a length
// prefix counting a trailing NUL, the content, then the NUL itself.
func stringPayload(v string) []byte {
	n := len(v) + 1 // +1 for trailing NUL
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n)) //nolint:gosec // MaxBuf bounds length to 1GiB
	out := append(b[:], v...)
	return append(out, 0)
}
