package lite3

import (
	"log"

	"github.com/google/uuid"

	"github.com/lite3io/lite3/internal/arena"
	"github.com/lite3io/lite3/internal/node"
	"github.com/lite3io/lite3/internal/status"
)

// Buffer is the shared read/mutate surface over a Lite³ arena. Callers
// reach it through FixedBuffer (caller-owned, never reallocates) or
// GrowableBuffer (reallocates per the grow policy in internal/arena).
// The embedded correlation ID exists purely for diagnostic logging —
// a convention borrowed from per-request correlation IDs in CLI tooling — and plays no role in the wire format.
type Buffer struct {
	buf      []byte
	position int
	id       uuid.UUID
	logger   *log.Logger
	// retry wraps a single mutating attempt with this Buffer's grow
	// policy: identity for a FixedBuffer, grow-and-retry for a
	// GrowableBuffer. Set once at construction so Cursor's setters
	// don't need to know which concrete buffer type they're attached to.
	retry func(op func() status.Status) status.Status
}

// GrowableOption configures a GrowableBuffer at construction.
type GrowableOption func(*GrowableBuffer)

// WithLogger attaches a diagnostic logger; grows are logged at Printf
// level via arena.DescribeGrow. A nil logger (the default) is silent.
func WithLogger(l *log.Logger) GrowableOption {
	return func(gb *GrowableBuffer) { gb.logger = l }
}

// NewFixedBuffer wraps an existing, caller-owned byte slice as a
// Lite³ arena. Its capacity never grows; mutations that would exceed
// len(raw) fail with InsufficientBuffer instead.
func NewFixedBuffer(raw []byte) *FixedBuffer {
	fb := &FixedBuffer{Buffer{buf: raw, id: uuid.New()}}
	fb.retry = func(op func() status.Status) status.Status { return op() }
	return fb
}

// NewGrowableBuffer allocates a fresh arena of at least MinBuf bytes
// that reallocates per GrowPolicy on InsufficientBuffer.
func NewGrowableBuffer(opts ...GrowableOption) *GrowableBuffer {
	gb := &GrowableBuffer{Buffer{buf: make([]byte, arena.MinBuf), id: uuid.New()}}
	gb.retry = gb.retryOnGrow
	for _, opt := range opts {
		opt(gb)
	}
	return gb
}

// FixedBuffer is a Buffer that never reallocates.
type FixedBuffer struct{ Buffer }

// GrowableBuffer is a Buffer that reallocates on InsufficientBuffer.
type GrowableBuffer struct{ Buffer }

// ID returns the buffer's correlation UUID, for inclusion in log lines.
func (b *Buffer) ID() uuid.UUID { return b.id }

// Bytes returns the live, in-use prefix of the arena: buf[:position].
func (b *Buffer) Bytes() []byte { return b.buf[:b.position] }

// Raw returns the full backing slice, including any uncommitted tail.
func (b *Buffer) Raw() []byte { return b.buf }

// Position returns the current write frontier.
func (b *Buffer) Position() int { return b.position }

// Generation returns the arena's current generation counter.
func (b *Buffer) Generation() uint32 {
	if b.position == 0 {
		return 0
	}
	return arena.GenerationOf(b.buf)
}

// Init formats an empty document with the given root type (TagObject
// or TagArray), discarding any prior content.
func (b *Buffer) Init(rootTag byte) status.Status {
	if len(b.buf) < arena.NodeSize {
		return status.InsufficientBuffer
	}
	arena.Zero(b.buf, 0, arena.NodeSize)
	root := node.At(b.buf, 0)
	root.SetGenType(rootTag, 0)
	b.position = arena.NodeSize
	return status.None
}

// grow reallocates according to the grow policy, rewriting this
// Buffer's backing slice in place. Only GrowableBuffer calls this; a
// FixedBuffer's Set methods return InsufficientBuffer verbatim.
func (b *Buffer) grow() status.Status {
	before := len(b.buf)
	grown, st := arena.Grow(b.buf, b.position)
	if !st.Ok() {
		return st
	}
	b.buf = grown
	if b.logger != nil {
		b.logger.Printf("%s [%s]", arena.DescribeGrow(before, len(grown)), b.id)
	}
	return status.GrewBuffer
}

// retryOnGrow runs op; for as long as it fails with InsufficientBuffer,
// grows and runs it again (the typed API's contract: a GrowableBuffer
// setter either succeeds or exhausts MaxBuf).
func (g *GrowableBuffer) retryOnGrow(op func() status.Status) status.Status {
	st := op()
	for st == status.InsufficientBuffer {
		if gst := g.grow(); gst != status.GrewBuffer {
			return gst
		}
		st = op()
	}
	return st
}
