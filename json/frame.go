package json

import "github.com/lite3io/lite3"

// FrameKind identifies what a decoder stack frame is waiting for.
type FrameKind int

const (
	// FrameObject: inside an Object container, expecting the next
	// property name or end-of-object.
	FrameObject FrameKind = iota
	// FrameObjectSwitch: a property name has been consumed (held in
	// frame.key); expecting a colon, then its value.
	FrameObjectSwitch
	// FrameArray: inside an Array container, expecting the next
	// element or end-of-array.
	FrameArray
)

// frame is one level of the decoder's explicit stack. A recursive
// descent over Object/Array nesting cannot suspend at an arbitrary
// scanner call while keeping its call stack's locals alive across a
// yield back to the driver, so the frame stack plays the role a
// hand-rolled coroutine's saved state would: container, pending key,
// and how far into the "key : value" shape the frame has gotten.
type frame struct {
	kind          FrameKind
	container     lite3.Cursor
	key           string
	colonConsumed bool
}
