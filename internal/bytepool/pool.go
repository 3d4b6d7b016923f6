// Package bytepool supplies pooled scratch allocations for the JSON
// decoder's unescaping of oversized string values and property names.
// Growable-buffer reallocation does not use it. It is a thin wrapper over bytebufferpool so
// every borrower returns the same pool-managed type rather than a bare
// []byte, keeping Get/Put paired at every call site.
package bytepool

import "github.com/valyala/bytebufferpool"

// Pool is a collaborator, not owned state: callers construct one (or
// share a package-level default) and pass it down, mirroring the
// decoder's byte-pool abstraction — scratch space is borrowed, never
// held across an operation it didn't start.
type Pool struct {
	inner bytebufferpool.Pool
}

// New returns a fresh, independent Pool.
func New() *Pool {
	return &Pool{}
}

// Default is a package-level Pool for callers that don't need
// isolation between independent decoders.
var Default = New()

// Get borrows a zero-length buffer from the pool.
func (p *Pool) Get() *bytebufferpool.ByteBuffer {
	return p.inner.Get()
}

// Put returns buf to the pool. Every Get must be paired with exactly
// one Put, including on error/cancellation unwind.
func (p *Pool) Put(buf *bytebufferpool.ByteBuffer) {
	p.inner.Put(buf)
}

// Borrow copies src into a pooled buffer and returns it; the caller
// owns the returned buffer until it calls Put.
func (p *Pool) Borrow(src []byte) *bytebufferpool.ByteBuffer {
	buf := p.Get()
	buf.Write(src) //nolint:errcheck // bytebufferpool.Write never fails
	return buf
}
