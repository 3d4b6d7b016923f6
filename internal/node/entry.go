package node

import (
	"encoding/binary"

	"github.com/lite3io/lite3/internal/arena"
)

// ValueSpec describes a value to be written by Set. Scalars carry their
// fully-serialized payload (everything after the tag byte); Object/Array
// values are requested via IsContainer, since their payload is a fresh
// 96-byte node rather than caller-supplied bytes.
type ValueSpec struct {
	Tag          byte
	Payload      []byte // unused when IsContainer
	IsContainer  bool
	ContainerTag byte // TagObject or TagArray
}

// PayloadLen returns the number of bytes the value occupies after its
// tag byte.
func (s ValueSpec) PayloadLen() int {
	if s.IsContainer {
		return arena.NodeSize
	}
	return len(s.Payload)
}

// ExistingValueLen inspects an already-serialized value at tagOffset and
// returns its tag and payload length, used to decide match-in-place vs
// match-but-larger during overwrite.
func ExistingValueLen(buf []byte, tagOffset int) (tag byte, payloadLen int) {
	tag = buf[tagOffset]
	switch tag {
	case arena.TagNull:
		return tag, 0
	case arena.TagBool:
		return tag, 1
	case arena.TagI64, arena.TagF64:
		return tag, 8
	case arena.TagBytes:
		n := binary.LittleEndian.Uint32(buf[tagOffset+1 : tagOffset+5])
		return tag, 4 + int(n)
	case arena.TagString:
		// n counts the trailing NUL the on-disk payload always carries,
		// same as an Object member key's encoded size.
		n := binary.LittleEndian.Uint32(buf[tagOffset+1 : tagOffset+5])
		return tag, 4 + int(n)
	case arena.TagObject, arena.TagArray:
		return tag, arena.NodeSize
	default:
		return tag, 0
	}
}

// alignedNodeStart returns the offset at or after pos at which a
// container value's 96-byte node may begin so that it lands on a
// 4-byte boundary.
func alignedNodeStart(pos int) int {
	return arena.AlignUp(pos)
}

// entryPlan precomputes every offset needed to serialize one entry:
// key-tag || key-bytes || value-tag || pad || value-bytes for an
// Object member (pad present only when the value is a container); just
// value-tag || pad || value-bytes, with no key material at all, for an
// Array element. The value tag byte always sits immediately after the
// key (or, for arrays, at `at` itself) — never after padding — so a
// reader can locate it without first knowing the value's type; any
// alignment padding needed for a container payload comes strictly
// *after* the tag byte, once the type is already known.
type entryPlan struct {
	start            int // entry start: stored as the tree's kv_offset for this slot
	keyTagOffset     int
	keyTagSize       int
	keyBytesOffset   int
	keySize          int // encoded size (chars+NUL); 0 for array elements
	valueTagOffset   int
	padFrom          int
	padTo            int
	valueBytesOffset int
	end              int
}

// planEntry computes an entryPlan for writing key (nil for array
// elements) and spec starting at `at`.
func planEntry(at int, key []byte, isArray bool, spec ValueSpec) entryPlan {
	var p entryPlan
	p.start = at
	pos := at
	if !isArray {
		keySize := len(key) + 1 // +1 for trailing NUL
		_, tagSize := EncodeKeyTag(keySize)
		p.keyTagOffset = pos
		p.keyTagSize = tagSize
		pos += tagSize
		p.keyBytesOffset = pos
		p.keySize = keySize
		pos += keySize
	}
	p.valueTagOffset = pos
	pos++
	if spec.IsContainer {
		aligned := alignedNodeStart(pos)
		p.padFrom, p.padTo = pos, aligned
		pos = aligned
	} else {
		p.padFrom, p.padTo = pos, pos
	}
	p.valueBytesOffset = pos
	pos += spec.PayloadLen()
	p.end = pos
	return p
}

// writeEntry serializes key+spec at `at` per planEntry's layout,
// zeroing any alignment padding. For a container value it only emits
// the value tag and reserves/zeroes the node's 96 bytes at
// plan.valueBytesOffset; the caller then writes that node's type/
// generation header there.
func writeEntry(buf []byte, at int, key []byte, isArray bool, spec ValueSpec) (plan entryPlan) {
	plan = planEntry(at, key, isArray, spec)
	if !isArray {
		tagBytes, _ := EncodeKeyTag(plan.keySize)
		copy(buf[plan.keyTagOffset:plan.keyTagOffset+plan.keyTagSize], tagBytes[:plan.keyTagSize])
		copy(buf[plan.keyBytesOffset:plan.keyBytesOffset+len(key)], key)
		buf[plan.keyBytesOffset+len(key)] = 0 // trailing NUL
	}
	buf[plan.valueTagOffset] = spec.Tag
	if plan.padTo > plan.padFrom {
		arena.Zero(buf, plan.padFrom, plan.padTo)
	}
	if spec.IsContainer {
		arena.Zero(buf, plan.valueBytesOffset, plan.valueBytesOffset+arena.NodeSize)
	} else {
		copy(buf[plan.valueBytesOffset:plan.valueBytesOffset+len(spec.Payload)], spec.Payload)
	}
	return plan
}

// ValueTagOffset resolves a stored kv_offset (an entry's start: the
// key tag's offset for an Object member, or the value tag's offset
// directly for an Array element, which stores no key material at all)
// to the offset of that entry's value tag byte.
func ValueTagOffset(buf []byte, entryStart int, isArray bool) int {
	if isArray {
		return entryStart
	}
	tagSize, keySize := DecodeKeyTag(buf[entryStart:])
	return entryStart + tagSize + keySize
}

// EncodeScalar serializes a non-container value into a ValueSpec's
// Payload for the given tag.
func EncodeScalar(tag byte, payload []byte) ValueSpec {
	return ValueSpec{Tag: tag, Payload: payload}
}

// EncodeContainer builds a ValueSpec requesting a fresh child node.
func EncodeContainer(tag byte) ValueSpec {
	return ValueSpec{Tag: tag, IsContainer: true, ContainerTag: tag}
}
