// Package node implements Lite³'s embedded B-tree engine: the 96-byte
// node layout, DJB2 hashing with quadratic probing,
// ordered lookup, insert/overwrite with split-on-overflow, and the
// depth-first iterator. It operates directly on the byte arena supplied
// by internal/arena; every node reference is an arena-relative byte
// offset, never a language pointer.
package node

import (
	"encoding/binary"

	"github.com/lite3io/lite3/internal/arena"
)

// View is a 96-byte node, aliasing a slice of the parent arena buffer.
// Mutating a View mutates the arena directly — there is no separate
// representation to keep in sync, the same "slice is the storage"
// convention used by binary node layouts elsewhere in this codebase.
type View []byte

// At returns the View for the node at the given arena-relative offset.
// Callers are responsible for having validated offset+NodeSize is within
// bounds and offset is 4-byte aligned; At itself does no bounds
// checking so it can be used from the tight loops in lookup.go/insert.go
// after a single caller-side check.
func At(buf []byte, offset int) View {
	return View(buf[offset : offset+arena.NodeSize])
}

// Zero clears an entire node to its empty-leaf state in place.
func Zero(v View) {
	clear(v)
}

// GenType returns the node's type tag (low byte) and its creation-time
// generation snapshot (high 24 bits). Only the root's generation word is
// authoritative for the whole buffer; a non-root node's snapshot is
// informational only.
func (v View) GenType() (tag byte, gen uint32) {
	word := binary.LittleEndian.Uint32(v[0:4])
	return byte(word), word >> 8
}

// SetGenType writes the node's type tag and generation snapshot.
func (v View) SetGenType(tag byte, gen uint32) {
	binary.LittleEndian.PutUint32(v[0:4], uint32(tag)|(gen<<8))
}

// TypeTag returns just the low-byte type tag (Object or Array for a
// node that indexes children).
func (v View) TypeTag() byte {
	return v[0]
}

// Hash returns the i-th key hash (0 <= i < 7), kept in strictly
// ascending order across [0, KeyCount).
func (v View) Hash(i int) uint32 {
	off := 4 + i*4
	return binary.LittleEndian.Uint32(v[off : off+4])
}

// SetHash writes the i-th key hash slot.
func (v View) SetHash(i int, h uint32) {
	off := 4 + i*4
	binary.LittleEndian.PutUint32(v[off:off+4], h)
}

// sizeKC returns the raw size_kc word: low 3 bits key_count, remaining
// bits size (meaningful on each container's top node).
func (v View) sizeKC() uint32 {
	return binary.LittleEndian.Uint32(v[32:36])
}

func (v View) setSizeKC(word uint32) {
	binary.LittleEndian.PutUint32(v[32:36], word)
}

// KeyCount returns this node's key count (0..7).
func (v View) KeyCount() int {
	return int(v.sizeKC() & 0x7)
}

// SetKeyCount rewrites this node's key count, preserving the size field.
func (v View) SetKeyCount(n int) {
	word := v.sizeKC()
	word = (word &^ 0x7) | uint32(n&0x7)
	v.setSizeKC(word)
}

// Size returns this container's own total entry count, tracked
// independently of key_count on the container's top (local-root) node —
// every Object/Array maintains its own, not just the document root.
func (v View) Size() uint32 {
	return v.sizeKC() >> 3
}

// SetSize rewrites this container's total entry count, preserving key_count.
func (v View) SetSize(n uint32) {
	word := (n << 3) | (v.sizeKC() & 0x7)
	v.setSizeKC(word)
}

// KVOffset returns the arena offset of the i-th slot's
// (key-tag,key-bytes,value-tag,value-bytes) entry.
func (v View) KVOffset(i int) int {
	off := 36 + i*4
	return int(binary.LittleEndian.Uint32(v[off : off+4]))
}

// SetKVOffset writes the i-th slot's entry offset.
func (v View) SetKVOffset(i int, offset int) {
	off := 36 + i*4
	binary.LittleEndian.PutUint32(v[off:off+4], uint32(offset)) //nolint:gosec // arena offsets fit uint32 by construction (MaxBuf = 1GiB)
}

// ChildOffset returns the arena offset of the i-th child node (0..7).
// ChildOffset(0) == 0 iff the node is a leaf.
func (v View) ChildOffset(i int) int {
	off := 64 + i*4
	return int(binary.LittleEndian.Uint32(v[off : off+4]))
}

// SetChildOffset writes the i-th child offset.
func (v View) SetChildOffset(i int, offset int) {
	off := 64 + i*4
	binary.LittleEndian.PutUint32(v[off:off+4], uint32(offset)) //nolint:gosec // see SetKVOffset
}

// IsLeaf reports whether the node has no children.
func (v View) IsLeaf() bool {
	return v.ChildOffset(0) == 0
}

// ZeroHashSlot clears the hash and kv-offset at index i, leaving child
// offsets untouched (see ZeroChildSlot for those).
func (v View) ZeroHashSlot(i int) {
	v.SetHash(i, 0)
	v.SetKVOffset(i, 0)
}

// ZeroChildSlot clears child offset slot i.
func (v View) ZeroChildSlot(i int) {
	v.SetChildOffset(i, 0)
}

// KeyTagSize returns the on-disk width, in bytes, of a key tag for a
// key whose size (UTF-8 bytes including trailing NUL) is keySize.
// keySize == 0 yields 1; array elements never use this, since they
// store no key tag at all (see planEntry).
func KeyTagSize(keySize int) int {
	n := 1
	if keySize >= 64 {
		n++
	}
	if keySize >= 16384 {
		n++
	}
	return n
}

// EncodeKeyTag packs a key tag: low 2 bits hold tagSize-1, remaining
// bits hold keySize. tag is returned as up to KeyTagSizeMax
// little-endian bytes; the caller writes tag[:tagSize].
func EncodeKeyTag(keySize int) (tag [arena.KeyTagSizeMax]byte, tagSize int) {
	tagSize = KeyTagSize(keySize)
	word := uint32(tagSize-1) | (uint32(keySize) << 2)
	tag[0] = byte(word)
	tag[1] = byte(word >> 8)
	tag[2] = byte(word >> 16)
	tag[3] = byte(word >> 24)
	return tag, tagSize
}

// DecodeKeyTag reads a key tag starting at buf[0], returning the
// on-disk tag width and the encoded key size. Only Object entries carry
// a key tag; an Array entry starts directly with its value tag.
func DecodeKeyTag(buf []byte) (tagSize int, keySize int) {
	tagSize = int(buf[0]&0x3) + 1
	var word uint32
	for i := 0; i < tagSize; i++ {
		word |= uint32(buf[i]) << (8 * i)
	}
	keySize = int(word >> 2)
	return tagSize, keySize
}
