package node

import (
	"github.com/lite3io/lite3/internal/arena"
	"github.com/lite3io/lite3/internal/status"
)

// SetResult reports what Set actually did, so the typed API layer
// (root package) can react — in particular, a freshly allocated
// container child needs its offset handed back to the caller so that a
// subsequent nested Set can target it.
type SetResult struct {
	Position        int // new tail position after the write
	ValueTagOffset  int // offset of the written value's tag byte
	ChildOffset     int // set iff spec.IsContainer: offset of the fresh child node
	RootMoved       bool
	NewRootGenBumps bool // not populated by Set (always false); every successful Set bumps the generation regardless
}

// allocStep is one "allocate a 4-byte-aligned N-byte region" decision,
// replayed identically during the dry-run sizing pass and the real
// mutation so that a capacity shortfall is always detected before any
// byte is written, guaranteeing no observable change on failure.
type allocStep struct {
	size int
}

// simulate advances a position through a fixed sequence of alloc steps
// (alignment-padding before each), returning the final position. It is
// pure arithmetic — no buffer access — so it is safe to run once to
// size the operation and again, identically, to perform it.
func simulate(pos int, steps []allocStep) int {
	for _, s := range steps {
		pos = arena.AlignUp(pos)
		pos += s.size
	}
	return pos
}

// Set inserts or overwrites the value for key (Object; key nil
// and baseHash the literal index for Array) in the container whose own
// top node is at containerOffset. containerOffset is that container's
// "local root": splitting it never relocates it (the original contents
// move into a freshly allocated child instead) because its
// address is the fixed pointer some other entry's value bytes (or, for
// the document root, the caller's convention) depend on. Every
// container — the document root and every nested Object/Array alike —
// tracks its own total entry count in its size_kc field, independent
// of its current key_count, so Array bounds-checking and append never
// need a tree-wide scan.
//
// position is the current tail of the arena (first free, unaligned
// byte); buf must have at least position bytes already committed.
func Set(buf []byte, position int, containerOffset int, baseHash uint32, key []byte, isArray bool, spec ValueSpec) (res SetResult, st status.Status) {
	maxAttempts := arena.HashProbeMax
	if isArray {
		maxAttempts = 1
	}

	var found descendResult
	var hAttempt uint32
	matchedAttempt := false
	for attempt := 0; attempt < maxAttempts; attempt++ {
		hAttempt = ProbeHash(baseHash, attempt)
		d := descendOnce(buf, containerOffset, hAttempt, key, isArray)
		if d.path == nil {
			return res, status.NodeWalksExceededTreeHeightMax
		}
		if d.matched {
			found = d
			matchedAttempt = true
			break
		}
		if !d.collided {
			found = d // path ends at the leaf where insertion belongs
			break
		}
		// collision: keep probing
		if attempt == maxAttempts-1 {
			return res, status.HashProbeLimitReached
		}
	}

	if matchedAttempt {
		return overwrite(buf, position, containerOffset, found.entryStart, key, isArray, spec)
	}
	return insertFresh(buf, position, containerOffset, found.path, hAttempt, key, isArray, spec)
}

// overwrite implements match-in-place / match-but-larger.
// entryStart is the matching slot's kv_offset: the key tag's offset for
// an Object member, or the value tag's offset directly for an Array
// element.
func overwrite(buf []byte, position int, containerOffset int, entryStart int, key []byte, isArray bool, spec ValueSpec) (SetResult, status.Status) {
	valueOff := ValueTagOffset(buf, entryStart, isArray)
	_, oldLen := ExistingValueLen(buf, valueOff)
	newLen := spec.PayloadLen()
	valStart := valueOff + 1

	// A container value's 96-byte node must land 4-byte aligned; the
	// old slot's start is only guaranteed that when it already held a
	// container itself (arena.AlignUp'd at allocation time). A scalar
	// slot large enough to fit the new container by length alone can
	// still sit at an unaligned byte offset, so alignment is checked
	// independently of length before match-in-place is allowed.
	fitsInPlace := newLen <= oldLen && (!spec.IsContainer || arena.IsAligned(valStart))

	if fitsInPlace {
		// match-in-place: the key (if any) is untouched, so kv_offset
		// keeps pointing at entryStart; only the value bytes change.
		arena.Zero(buf, valStart, valStart+oldLen)
		buf[valueOff] = spec.Tag
		childOffset := 0
		if spec.IsContainer {
			v := At(buf, valStart)
			v.SetGenType(spec.ContainerTag, arena.GenerationOf(buf))
			childOffset = valStart
		} else {
			copy(buf[valStart:valStart+len(spec.Payload)], spec.Payload)
		}
		bumpRoot(buf, containerOffset, false)
		return SetResult{Position: position, ValueTagOffset: valueOff, ChildOffset: childOffset}, status.None
	}

	// match-but-larger: the new value no longer fits in the old slot —
	// either its payload outgrew it, or (container values only) the old
	// slot's start isn't 4-byte aligned — so the whole entry (key
	// included, for Objects) is re-emitted at the tail and the tree's
	// kv_offset slot is repointed at the new entry start. The old
	// entry's bytes become unreachable garbage by design (see
	// DESIGN.md).
	steps := []allocStep{{size: planEntry(position, key, isArray, spec).end - position}}
	if simulate(position, steps) > len(buf) {
		return SetResult{}, status.InsufficientBuffer
	}
	plan := writeEntry(buf, position, key, isArray, spec)
	childOffset := 0
	if spec.IsContainer {
		v := At(buf, plan.valueBytesOffset)
		v.SetGenType(spec.ContainerTag, arena.GenerationOf(buf))
		childOffset = plan.valueBytesOffset
	}

	if st := repointEntry(buf, containerOffset, entryStart, plan.start); st != status.None {
		return SetResult{}, st
	}

	bumpRoot(buf, containerOffset, false)
	return SetResult{Position: plan.end, ValueTagOffset: plan.valueTagOffset, ChildOffset: childOffset}, status.None
}

// repointEntry finds the (node, slot) whose kv_offset equals oldOffset
// anywhere in the tree rooted at containerOffset and rewrites it to
// newOffset. Used only by the match-but-larger path, which is the sole
// case where an existing entry (key and value together) moves to a new
// offset.
func repointEntry(buf []byte, containerOffset int, oldOffset, newOffset int) status.Status {
	var walk func(node int, depth int) bool
	walk = func(node int, depth int) bool {
		if depth > arena.TreeHeightMax {
			return false
		}
		v := At(buf, node)
		kc := v.KeyCount()
		for i := 0; i < kc; i++ {
			if v.KVOffset(i) == oldOffset {
				v.SetKVOffset(i, newOffset)
				return true
			}
		}
		if !v.IsLeaf() {
			for i := 0; i <= kc; i++ {
				c := v.ChildOffset(i)
				if c != 0 && walk(c, depth+1) {
					return true
				}
			}
		}
		return false
	}
	if !walk(containerOffset, 0) {
		return status.KeyNotFound
	}
	return status.None
}

// insertFresh implements the no-match insert path: write the new
// entry's bytes once, then bubble (hash, kv_offset[, child]) up the
// recorded path, splitting any node that was already full before this
// operation touched it.
func insertFresh(buf []byte, position int, containerOffset int, path []pathStep, hAttempt uint32, key []byte, isArray bool, spec ValueSpec) (SetResult, status.Status) {
	if len(path) == 0 {
		return SetResult{}, status.NodeWalksExceededTreeHeightMax
	}

	// Determine, from the *existing* (pre-mutation) key counts, which
	// levels will need to split, walking from the leaf upward.
	splitsNeeded := 0
	for i := len(path) - 1; i >= 0; i-- {
		v := At(buf, path[i].nodeOffset)
		if v.KeyCount() == arena.KeyCountMax {
			splitsNeeded++
		} else {
			break
		}
	}
	rootSplits := splitsNeeded == len(path) // every level on the path, including root, is full

	// Size the whole operation before mutating anything.
	steps := []allocStep{}
	entryPlan := planEntry(position, key, isArray, spec) // position-dependent only through alignment, simulated identically below
	steps = append(steps, allocStep{size: entryPlan.end - position})
	for i := 0; i < splitsNeeded; i++ {
		atRoot := rootSplits && i == splitsNeeded-1
		if atRoot {
			steps = append(steps, allocStep{size: arena.NodeSize}, allocStep{size: arena.NodeSize})
		} else {
			steps = append(steps, allocStep{size: arena.NodeSize})
		}
	}
	if simulate(position, steps) > len(buf) {
		return SetResult{}, status.InsufficientBuffer
	}

	// 1. Write the new entry's bytes at the (now guaranteed sufficient)
	// tail position.
	plan := writeEntry(buf, position, key, isArray, spec)
	pos := plan.end
	childOffset := 0
	if spec.IsContainer {
		v := At(buf, plan.valueBytesOffset)
		v.SetGenType(spec.ContainerTag, arena.GenerationOf(buf))
		childOffset = plan.valueBytesOffset
	}

	// 2. Bubble the new (hash, kv_offset[, childForThisLevel]) up the
	// path, splitting full nodes as we go. kv_offset stored in the tree
	// is always the entry's start (plan.start), not its value tag —
	// see ValueTagOffset.
	bubbleHash := hAttempt
	bubbleKV := plan.start
	bubbleChild := 0 // no new child at the leaf level (we just inserted a value, not a subtree)
	haveChild := false

	for i := len(path) - 1; i >= 0; i-- {
		step := path[i]
		v := At(buf, step.nodeOffset)
		isRootLevel := step.nodeOffset == containerOffset

		if v.KeyCount() < arena.KeyCountMax {
			insertIntoNode(v, step.slot, bubbleHash, bubbleKV, bubbleChild, haveChild)
			bumpRoot(buf, containerOffset, true)
			return SetResult{Position: pos, ValueTagOffset: plan.valueTagOffset, ChildOffset: childOffset}, status.None
		}

		// Full: split. Build the conceptual 8-entry array (existing 7
		// plus the incoming one at step.slot), partition lower/promote/upper.
		var hs [arena.KeyCountMax + 1]uint32
		var kvs [arena.KeyCountMax + 1]int
		var children [arena.KeyCountMax + 2]int
		hasChildren := !v.IsLeaf() || haveChild

		// Fill existing, leaving a gap at step.slot for the incoming key.
		j := 0
		for idx := 0; idx < arena.KeyCountMax; idx++ {
			if idx == step.slot {
				hs[j] = bubbleHash
				kvs[j] = bubbleKV
				j++
			}
			hs[j] = v.Hash(idx)
			kvs[j] = v.KVOffset(idx)
			j++
		}
		if step.slot == arena.KeyCountMax {
			hs[j] = bubbleHash
			kvs[j] = bubbleKV
		}

		if !v.IsLeaf() {
			jc := 0
			for idx := 0; idx <= arena.KeyCountMax; idx++ {
				if idx == step.slot+1 && haveChild {
					children[jc] = bubbleChild
					jc++
				}
				children[jc] = v.ChildOffset(idx)
				jc++
			}
			if step.slot+1 == arena.KeyCountMax+1 && haveChild {
				children[jc] = bubbleChild
			}
		} else if haveChild {
			// A leaf receiving a promoted child cannot happen: the
			// path's leaf level never carries an incoming child.
			children[step.slot+1] = bubbleChild
		}

		mid := arena.KeyCountMin // index 3 of the 8-entry conceptual array
		promotedHash := hs[mid]
		promotedKV := kvs[mid]

		atRoot := isRootLevel
		if atRoot {
			siblingOffset, oldRootCopy, newPos, st := splitRoot(buf, pos, containerOffset, v, hs, kvs, children, hasChildren)
			if st != status.None {
				return SetResult{}, st
			}
			pos = newPos
			_ = siblingOffset
			_ = oldRootCopy
			bumpRoot(buf, containerOffset, true)
			return SetResult{Position: pos, ValueTagOffset: plan.valueTagOffset, ChildOffset: childOffset}, status.None
		}

		siblingOffset, newPos, st := splitNonRoot(buf, pos, v, hs, kvs, children, hasChildren)
		if st != status.None {
			return SetResult{}, st
		}
		pos = newPos

		bubbleHash = promotedHash
		bubbleKV = promotedKV
		bubbleChild = siblingOffset
		haveChild = true
		// continue to parent level (i-1)
	}

	return SetResult{}, status.NodeWalksExceededTreeHeightMax
}

// insertIntoNode shifts v's arrays right from slot and writes the
// incoming key (and, if haveChild, the new child at slot+1). Caller
// guarantees v.KeyCount() < KeyCountMax.
func insertIntoNode(v View, slot int, hash uint32, kv int, child int, haveChild bool) {
	kc := v.KeyCount()
	for i := kc; i > slot; i-- {
		v.SetHash(i, v.Hash(i-1))
		v.SetKVOffset(i, v.KVOffset(i-1))
	}
	v.SetHash(slot, hash)
	v.SetKVOffset(slot, kv)
	if haveChild {
		for i := kc + 1; i > slot+1; i-- {
			v.SetChildOffset(i, v.ChildOffset(i-1))
		}
		v.SetChildOffset(slot+1, child)
	}
	v.SetKeyCount(kc + 1)
}

// writeSplitHalf writes keyCount keys (from hs/kvs starting at
// srcStart) and, if hasChildren, keyCount+1 children (from children
// starting at childStart) into a freshly zeroed node.
func writeSplitHalf(v View, hs []uint32, kvs []int, children []int, srcStart, keyCount, childStart int, hasChildren bool) {
	Zero(v)
	for i := 0; i < keyCount; i++ {
		v.SetHash(i, hs[srcStart+i])
		v.SetKVOffset(i, kvs[srcStart+i])
	}
	v.SetKeyCount(keyCount)
	if hasChildren {
		for i := 0; i <= keyCount; i++ {
			v.SetChildOffset(i, children[childStart+i])
		}
	}
}

// splitNonRoot splits a full, non-root node in place: the lower
// KeyCountMin entries stay at v's offset, the upper entries move to a
// freshly allocated sibling, and the middle entry is returned via the
// caller's hs[mid]/kvs[mid] (already extracted before calling this).
func splitNonRoot(buf []byte, pos int, v View, hs [arena.KeyCountMax + 1]uint32, kvs [arena.KeyCountMax + 1]int, children [arena.KeyCountMax + 2]int, hasChildren bool) (siblingOffset int, newPos int, st status.Status) {
	aligned := arena.AlignUp(pos)
	if aligned+arena.NodeSize > len(buf) {
		return 0, 0, status.InsufficientBuffer
	}
	if aligned > pos {
		arena.Zero(buf, pos, aligned)
	}
	tag := v.TypeTag()
	gen := arena.GenerationOf(buf)

	upperStart := arena.KeyCountMin + 1
	upperCount := len(hs) - upperStart // 4

	sibling := At(buf, aligned)
	sibling.SetGenType(tag, gen)
	writeSplitHalf(sibling, hs[:], kvs[:], children[:], upperStart, upperCount, upperStart, hasChildren)

	writeSplitHalf(v, hs[:], kvs[:], children[:], 0, arena.KeyCountMin, 0, hasChildren)

	return aligned, aligned + arena.NodeSize, status.None
}

// splitRoot handles the root-split case: two fresh nodes are cut at
// once (the sibling holding the upper half, and a relocated copy of
// the original root's lower half), and the root's own 96 bytes at
// containerOffset are rewritten in place to become the new top-level node
// contents move into a child slot, freeing the root's own 96 bytes to
// become the new top-level node.
func splitRoot(buf []byte, pos int, containerOffset int, root View, hs [arena.KeyCountMax + 1]uint32, kvs [arena.KeyCountMax + 1]int, children [arena.KeyCountMax + 2]int, hasChildren bool) (siblingOffset int, oldRootCopyOffset int, newPos int, st status.Status) {
	tag := root.TypeTag()
	gen := arena.GenerationOf(buf)
	size := root.Size()

	p1 := arena.AlignUp(pos)
	if p1+arena.NodeSize > len(buf) {
		return 0, 0, 0, status.InsufficientBuffer
	}
	if p1 > pos {
		arena.Zero(buf, pos, p1)
	}
	oldRootCopyOffset = p1
	p2 := arena.AlignUp(p1 + arena.NodeSize)
	if p2+arena.NodeSize > len(buf) {
		return 0, 0, 0, status.InsufficientBuffer
	}
	if p2 > p1+arena.NodeSize {
		arena.Zero(buf, p1+arena.NodeSize, p2)
	}
	siblingOffset = p2

	upperStart := arena.KeyCountMin + 1
	upperCount := len(hs) - upperStart

	oldRootCopy := At(buf, oldRootCopyOffset)
	oldRootCopy.SetGenType(tag, gen)
	writeSplitHalf(oldRootCopy, hs[:], kvs[:], children[:], 0, arena.KeyCountMin, 0, hasChildren)

	sibling := At(buf, siblingOffset)
	sibling.SetGenType(tag, gen)
	writeSplitHalf(sibling, hs[:], kvs[:], children[:], upperStart, upperCount, upperStart, hasChildren)

	promotedHash := hs[arena.KeyCountMin]
	promotedKV := kvs[arena.KeyCountMin]

	Zero(root)
	root.SetGenType(tag, gen)
	root.SetHash(0, promotedHash)
	root.SetKVOffset(0, promotedKV)
	root.SetKeyCount(1)
	root.SetChildOffset(0, oldRootCopyOffset)
	root.SetChildOffset(1, siblingOffset)
	root.SetSize(size)

	return siblingOffset, oldRootCopyOffset, siblingOffset + arena.NodeSize, status.None
}

// bumpRoot advances the arena's (always-global, offset-0) generation
// counter and, on a fresh insert, increments the mutated container's
// own total entry count: every container (the document root at offset
// 0, and every nested Object/Array) maintains its own size_kc size
// field the same way, which is what lets Array append/bounds-check
// work without a tree-wide scan.
func bumpRoot(buf []byte, containerOffset int, grew bool) {
	arena.BumpGeneration(buf)
	if grew {
		root := At(buf, containerOffset)
		root.SetSize(root.Size() + 1)
	}
}
