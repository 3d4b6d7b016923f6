package bytepool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBorrowCopiesSource(t *testing.T) {
	p := New()
	src := []byte("pending-key-scratch")
	buf := p.Borrow(src)
	require.Equal(t, src, buf.B)

	// Mutating src after Borrow must not affect the pooled copy.
	src[0] = 'X'
	require.Equal(t, byte('p'), buf.B[0])

	p.Put(buf)
}

func TestGetPutRoundTrip(t *testing.T) {
	p := New()
	buf := p.Get()
	require.Equal(t, 0, buf.Len())
	buf.WriteString("hello") //nolint:errcheck
	require.Equal(t, "hello", string(buf.B))
	p.Put(buf)

	// A reused buffer from the pool always starts empty.
	buf2 := p.Get()
	require.Equal(t, 0, buf2.Len())
	p.Put(buf2)
}
