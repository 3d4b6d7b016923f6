// Package arena implements Lite³'s buffer primitives: alignment
// constants, generation-counter access, node zeroing, and the
// growable-buffer grow policy. Everything above this package (node
// engine, typed API, JSON decoder) edits bytes through these helpers;
// arena itself knows nothing about nodes, keys, or values — only about
// the raw byte region, its write frontier, and its generation word.
package arena

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/lite3io/lite3/internal/status"
)

// Value tags. A value is always prefixed by one of these
// bytes; a tag >= TagInvalidMin is rejected on read.
const (
	TagNull   byte = 0
	TagBool   byte = 1
	TagI64    byte = 2
	TagF64    byte = 3
	TagBytes  byte = 4
	TagString byte = 5
	TagObject byte = 6
	TagArray  byte = 7

	TagInvalidMin byte = 8
)

// Core layout constants.
const (
	// NodeSize is the fixed, 4-byte-aligned size of every B-tree node.
	NodeSize = 96
	// NodeAlign is the alignment every node and every Object/Array
	// value payload must satisfy.
	NodeAlign = 4
	// KeyCountMax is the maximum number of keys a node holds (order-8
	// B-tree, fan-out up to 8 children) before it must split.
	KeyCountMax = 7
	// KeyCountMin is the minimum key count a node retains after split.
	KeyCountMin = 3
	// TreeHeightMax bounds descent during lookup/insert.
	TreeHeightMax = 9
	// HashProbeMax bounds quadratic probing for a single keyed
	// lookup/insert.
	HashProbeMax = 128
	// KeyTagSizeMax is the largest on-disk width of a key tag, in bytes.
	KeyTagSizeMax = 4
)

// Buffer sizing (grow policy).
const (
	// MinBuf is the minimum size a growable buffer is clamped to.
	MinBuf = 1024
	// MaxBuf is the largest size a growable buffer may reach.
	MaxBuf = 1 << 30 // 1 GiB
	// growFactor is the multiplier applied on each reallocation.
	growFactor = 4
)

// AlignUp rounds n up to the next multiple of NodeAlign.
func AlignUp(n int) int {
	rem := n % NodeAlign
	if rem == 0 {
		return n
	}
	return n + (NodeAlign - rem)
}

// IsAligned reports whether offset is a valid 4-byte-aligned node/value
// position.
func IsAligned(offset int) bool {
	return offset%NodeAlign == 0
}

// Zero zeroes buf[from:to]. Any write that pads to NodeAlign or that
// replaces a larger entry with a smaller one must call this: a stale,
// non-zero byte left where a type tag is later read would be
// misinterpreted as a spurious value.
func Zero(buf []byte, from, to int) {
	if to <= from {
		return
	}
	clear(buf[from:to])
}

// GenerationOf reads the 24-bit generation counter out of the root
// node's first header word (low 8 bits are the root type tag, high 24
// bits are the generation).
func GenerationOf(buf []byte) uint32 {
	word := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return word >> 8
}

// RootTypeOf reads the root node's type tag (low byte of the first
// header word).
func RootTypeOf(buf []byte) byte {
	return buf[0]
}

// SetGeneration rewrites the high 24 bits of the root header word,
// leaving the low 8-bit type tag untouched. Generation is monotone
// non-decreasing; callers bump it on every
// structural mutation via BumpGeneration.
func SetGeneration(buf []byte, gen uint32) {
	tag := buf[0]
	word := uint32(tag) | (gen << 8)
	buf[0] = byte(word)
	buf[1] = byte(word >> 8)
	buf[2] = byte(word >> 16)
	buf[3] = byte(word >> 24)
}

// BumpGeneration increments and returns the root's generation counter.
// The 24-bit field wraps silently on overflow, which after 2^24
// mutations against a single buffer is an acceptable, documented
// limitation (handles simply become indistinguishable from a much
// earlier generation rather than the operation failing outright).
func BumpGeneration(buf []byte) uint32 {
	gen := (GenerationOf(buf) + 1) & 0x00FFFFFF
	SetGeneration(buf, gen)
	return gen
}

// GrowPolicy computes the next buffer length for a growable buffer
// given its current length L: L' = min(4*L, MaxBuf), clamped to
// [MinBuf, MaxBuf]. It fails with InsufficientBuffer if there isn't
// room even for alignment padding after growth.
func GrowPolicy(length int) (int, status.Status) {
	next := length * growFactor
	if next < MinBuf {
		next = MinBuf
	}
	if next > MaxBuf {
		next = MaxBuf
	}
	if length > next-(NodeAlign-1) {
		return 0, status.InsufficientBuffer
	}
	return next, status.None
}

// Grow reallocates buf per GrowPolicy, copying the live prefix
// [0:position) verbatim — offsets inside a Lite³ buffer are
// buffer-relative, so a straight byte copy is always sufficient to
// relocate the whole tree. Returns GrewBuffer on success so callers can
// distinguish "grew, retry" from a nominal return.
func Grow(buf []byte, position int) ([]byte, status.Status) {
	next, st := GrowPolicy(len(buf))
	if !st.Ok() {
		return nil, st
	}
	grown := make([]byte, next)
	copy(grown, buf[:position])
	return grown, status.GrewBuffer
}

// DescribeGrow renders a human-readable diagnostic for a buffer grow,
// e.g. "grew buffer 1.0 kB -> 4.1 kB" for 1024 -> 4096 bytes. Used only for optional logging at
// the façade/decoder boundary; never on the
// hot path.
func DescribeGrow(from, to int) string {
	return fmt.Sprintf("grew buffer %s -> %s", humanize.Bytes(uint64(from)), humanize.Bytes(uint64(to)))
}
