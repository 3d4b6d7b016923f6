package node

import "github.com/lite3io/lite3/internal/status"

// frame is one level of an Iter's explicit depth-first stack: the node
// being visited, the next key index to emit (0..KeyCount), and whether
// the child immediately before that key (child_offsets[next]) has
// already been pushed — an in-order walk visits child[i], then key[i],
// then child[i+1], then key[i+1], ..., then child[KeyCount].
type frame struct {
	nodeOffset  int
	next        int // next key index to emit, 0..KeyCount
	childPushed bool
}

// Iter walks every (hash, kv_offset) pair of a container in ascending
// hash order — which, for Array containers, is ascending index order.
// It holds no language pointers into the arena, only offsets, so it
// survives arbitrary Go GC activity but is invalidated the instant the
// buffer's generation advances underneath it.
type Iter struct {
	buf        []byte
	generation uint32
	stack      []frame
	done       bool
}

// NewIter starts an iterator over containerOffset's entries.
func NewIter(buf []byte, containerOffset int) *Iter {
	return &Iter{
		buf:        buf,
		generation: genOf(buf),
		stack:      []frame{{nodeOffset: containerOffset, next: 0}},
	}
}

func genOf(buf []byte) uint32 {
	word := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return word >> 8
}

// Next advances the iterator and reports the next entry's kv_offset.
// Status is IteratorItem while entries remain, IteratorDone once
// exhausted, and InvalidIterator if the buffer's generation has
// changed since NewIter.
func (it *Iter) Next() (kvOffset int, st status.Status) {
	if it.done {
		return 0, status.IteratorDone
	}
	if genOf(it.buf) != it.generation {
		return 0, status.InvalidIterator
	}
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		v := At(it.buf, top.nodeOffset)
		kc := v.KeyCount()

		if top.next > kc {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		if !v.IsLeaf() && !top.childPushed {
			top.childPushed = true
			if child := v.ChildOffset(top.next); child != 0 {
				it.stack = append(it.stack, frame{nodeOffset: child})
				continue
			}
		}
		if top.next == kc {
			top.next++
			continue
		}
		kv := v.KVOffset(top.next)
		top.next++
		top.childPushed = false
		return kv, status.IteratorItem
	}
	it.done = true
	return 0, status.IteratorDone
}
