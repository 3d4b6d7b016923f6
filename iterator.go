package lite3

import (
	"encoding/binary"
	"math"

	"github.com/lite3io/lite3/internal/arena"
	"github.com/lite3io/lite3/internal/node"
	"github.com/lite3io/lite3/internal/status"
)

// Iterator walks a container's entries in ascending hash (Object) or
// index (Array) order. It is invalidated the instant the underlying
// Buffer's generation advances — Next reports InvalidIterator rather
// than risk reading through a stale offset.
type Iterator struct {
	buf        *Buffer
	it         *node.Iter
	isArray    bool
	entryStart int // kv_offset as stored in the tree: key tag offset (Object) or value tag offset (Array)
	off        int // resolved value tag offset
	tag        byte
}

// Iterate returns an Iterator over this container's entries.
func (c Cursor) Iterate() *Iterator {
	return &Iterator{buf: c.buf, it: node.NewIter(c.buf.buf, c.offset), isArray: c.Tag() == TagArray}
}

// Next advances to the next entry, returning IteratorItem while more
// remain and IteratorDone once exhausted.
func (it *Iterator) Next() status.Status {
	entryStart, st := it.it.Next()
	if st != status.IteratorItem {
		return st
	}
	it.entryStart = entryStart
	it.off = node.ValueTagOffset(it.buf.buf, entryStart, it.isArray)
	it.tag = it.buf.buf[it.off]
	return status.IteratorItem
}

// Tag returns the current entry's value tag.
func (it *Iterator) Tag() byte { return it.tag }

// I64 returns the current entry's value as an int64.
func (it *Iterator) I64() int64 {
	return int64(binary.LittleEndian.Uint64(it.buf.buf[it.off+1 : it.off+9])) //nolint:gosec
}

// F64 returns the current entry's value as a float64.
func (it *Iterator) F64() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(it.buf.buf[it.off+1 : it.off+9]))
}

// Bool returns the current entry's value as a bool.
func (it *Iterator) Bool() bool { return it.buf.buf[it.off+1] != 0 }

// String returns a handle to the current entry's String value.
func (it *Iterator) String() String {
	return String{b: stringHandleAt(it.buf.buf, it.buf.Generation(), it.off)}
}

// Bytes returns a handle to the current entry's Bytes value.
func (it *Iterator) Bytes() Bytes {
	return bytesHandleAt(it.buf.buf, it.buf.Generation(), it.off)
}

// Object returns a Cursor over the current entry's Object value.
func (it *Iterator) Object() Cursor {
	return Cursor{buf: it.buf, offset: arena.AlignUp(it.off + 1)}
}

// Array returns a Cursor over the current entry's Array value.
func (it *Iterator) Array() Cursor {
	return Cursor{buf: it.buf, offset: arena.AlignUp(it.off + 1)}
}

// Key returns the current entry's key. Array containers store no key
// material at all, so this returns an empty string for them.
func (it *Iterator) Key() string {
	if it.isArray {
		return ""
	}
	tagSize, keySize := node.DecodeKeyTag(it.buf.buf[it.entryStart:])
	if keySize == 0 {
		return ""
	}
	start := it.entryStart + tagSize
	return string(it.buf.buf[start : start+keySize-1]) // strip trailing NUL
}
