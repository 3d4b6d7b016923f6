package lite3

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedBufferInitAndBasicSet(t *testing.T) {
	raw := make([]byte, 4096)
	fb := NewFixedBuffer(raw)
	require.True(t, fb.Init(TagObject).Ok())
	require.True(t, fb.Root().SetI64("x", 1).Ok())
	require.EqualValues(t, 1, fb.Root().Count())
}

func TestFixedBufferNeverReallocatesOnOverflow(t *testing.T) {
	raw := make([]byte, 100) // barely enough for Init's root node
	fb := NewFixedBuffer(raw)
	require.True(t, fb.Init(TagObject).Ok())

	st := fb.Root().SetBytes("blob", make([]byte, 4096))
	require.Equal(t, InsufficientBuffer, st)
}

func TestGrowableBufferGrowsPastMinBuf(t *testing.T) {
	gb := NewGrowableBuffer()
	before := len(gb.Raw())
	require.True(t, gb.Init(TagObject).Ok())

	big := make([]byte, before*2)
	require.True(t, gb.Root().SetBytes("blob", big).Ok())
	require.Greater(t, len(gb.Raw()), before)
}

func TestGrowableBufferWithLoggerLogsGrowth(t *testing.T) {
	var out bytes.Buffer
	logger := log.New(&out, "", 0)
	gb := NewGrowableBuffer(WithLogger(logger))
	before := len(gb.Raw())
	require.True(t, gb.Init(TagObject).Ok())

	require.True(t, gb.Root().SetBytes("blob", make([]byte, before*2)).Ok())
	require.Contains(t, out.String(), "grew buffer")
}

func TestBufferIDIsStableAndUnique(t *testing.T) {
	a := NewGrowableBuffer()
	b := NewGrowableBuffer()
	require.NotEqual(t, a.ID(), b.ID())
	require.Equal(t, a.ID(), a.ID())
}

func TestBufferPositionAndBytesTrackWriteFrontier(t *testing.T) {
	gb := NewGrowableBuffer()
	require.True(t, gb.Init(TagObject).Ok())
	p0 := gb.Position()
	require.True(t, gb.Root().SetI64("x", 1).Ok())
	require.Greater(t, gb.Position(), p0)
	require.Len(t, gb.Bytes(), gb.Position())
}

func TestBufferGenerationStartsAtZeroAndAdvancesOnMutation(t *testing.T) {
	gb := NewGrowableBuffer()
	require.True(t, gb.Init(TagObject).Ok())
	require.EqualValues(t, 0, gb.Generation())

	require.True(t, gb.Root().SetI64("x", 1).Ok())
	require.Greater(t, gb.Generation(), uint32(0))
}

func TestBufferInitFailsWhenFixedBufferTooSmall(t *testing.T) {
	fb := NewFixedBuffer(make([]byte, 10))
	require.Equal(t, InsufficientBuffer, fb.Init(TagObject))
}
