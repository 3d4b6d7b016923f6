// Package lite3 implements the Lite³ message format: a JSON-compatible,
// zero-copy, in-place-mutable binary layout backed by a single contiguous
// byte arena. A Lite³ buffer simultaneously stores a JSON-equivalent tree
// of typed values and serves as the working memory for every read and
// mutation against that tree — there is no parse step and no separate
// object graph.
//
// The arena is addressed entirely by byte offset: objects and arrays are
// fixed-size nodes of an embedded, hash-ordered B-tree of order 8, and
// every mutation is an in-place byte edit guarded by a monotone
// generation counter. See internal/node for the B-tree engine and
// internal/arena for the buffer primitives; this package exposes the
// typed get/set surface and the higher-level façades (FixedBuffer,
// GrowableBuffer, Builder) built on top of them. Package lite3/json
// provides the streaming JSON transcoders.
//
// Lite³ never compacts or reclaims arena bytes. Overwriting a value
// with one too large for its existing slot re-emits the entry
// elsewhere in the arena and abandons the old bytes in place; the
// generation counter itself wraps silently after 2^24 mutations
// rather than failing. Both are permanent, accepted limitations, not
// planned work.
package lite3
