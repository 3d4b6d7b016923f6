package node

import (
	"bytes"

	"github.com/lite3io/lite3/internal/arena"
	"github.com/lite3io/lite3/internal/status"
)

// pathStep records one level visited while descending toward the slot
// for a given effective hash: the node's own offset and the slot index
// `i` used either to match a key or to descend into child i.
type pathStep struct {
	nodeOffset int
	slot       int // index in [0, KeyCount] used at this level
}

// descendResult is the outcome of walking the tree for one probe
// attempt.
type descendResult struct {
	path       []pathStep // root-to-leaf (or root-to-match) inclusive
	matched    bool       // true if an exact key match was found
	entryStart int        // valid when matched: the matching slot's kv_offset (entry start)
	collided   bool       // true if a hash-equal, key-different slot stopped this attempt
}

// firstGE returns the smallest index i in [0, keyCount) with
// v.Hash(i) >= h, or keyCount if none.
func firstGE(v View, keyCount int, h uint32) int {
	for i := 0; i < keyCount; i++ {
		if v.Hash(i) >= h {
			return i
		}
	}
	return keyCount
}

// keyAt returns the stored key bytes for an Object entry at
// entryOffset (key-tag || key-bytes || NUL), or nil if the decoded key
// size is 0. It is only called for Object entries.
func keyAt(buf []byte, entryOffset int) []byte {
	tagSize, keySize := DecodeKeyTag(buf[entryOffset:])
	if keySize == 0 {
		return nil
	}
	start := entryOffset + tagSize
	// keySize counts the trailing NUL; strip it for comparison/return.
	return buf[start : start+keySize-1]
}

// descendOnce walks the tree rooted at containerOffset for a single
// probe attempt with effective hash hAttempt. For Object containers,
// probeKey is compared byte-wise against any hash-matching slot found;
// for Array containers probeKey is nil and a hash match is always an
// index match, since array containers never probe past one attempt.
func descendOnce(buf []byte, containerOffset int, hAttempt uint32, probeKey []byte, isArray bool) descendResult {
	var res descendResult
	node := containerOffset
	for depth := 0; depth <= arena.TreeHeightMax; depth++ {
		v := At(buf, node)
		kc := v.KeyCount()
		i := firstGE(v, kc, hAttempt)
		res.path = append(res.path, pathStep{nodeOffset: node, slot: i})
		if i < kc && v.Hash(i) == hAttempt {
			entryStart := v.KVOffset(i)
			if isArray {
				res.matched = true
				res.entryStart = entryStart
				return res
			}
			if bytes.Equal(keyAt(buf, entryStart), probeKey) {
				res.matched = true
				res.entryStart = entryStart
				return res
			}
			res.collided = true
			return res
		}
		if v.IsLeaf() {
			return res
		}
		node = v.ChildOffset(i)
	}
	res.path = nil
	return res
}

// Lookup searches container (Object or Array) at containerOffset for
// probeKey (Object; nil for Array) using baseHash as the unprobed DJB2
// hash (Object) or literal index (Array). It returns the arena offset
// of the matching value's tag byte, or a failing Status.
func Lookup(buf []byte, containerOffset int, baseHash uint32, probeKey []byte, isArray bool) (valueTagOffset int, st status.Status) {
	maxAttempts := arena.HashProbeMax
	if isArray {
		maxAttempts = 1
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		h := ProbeHash(baseHash, attempt)
		res := descendOnce(buf, containerOffset, h, probeKey, isArray)
		if res.path == nil {
			return 0, status.NodeWalksExceededTreeHeightMax
		}
		if res.matched {
			return ValueTagOffset(buf, res.entryStart, isArray), status.None
		}
		if !res.collided {
			return 0, status.KeyNotFound
		}
		// collision: advance to next attempt
	}
	return 0, status.HashProbeLimitReached
}
