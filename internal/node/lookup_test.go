package node

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lite3io/lite3/internal/arena"
	"github.com/lite3io/lite3/internal/status"
)

// newRootBuf allocates and zeroes a fresh arena with an initialized
// root node of the given tag, with position left just past it.
func newRootBuf(size int, rootTag byte) ([]byte, int) {
	buf := make([]byte, size)
	arena.Zero(buf, 0, arena.NodeSize)
	root := At(buf, 0)
	root.SetGenType(rootTag, 0)
	return buf, arena.NodeSize
}

func TestLookupMissingKeyOnEmptyContainer(t *testing.T) {
	buf, _ := newRootBuf(4096, arena.TagObject)
	_, st := Lookup(buf, 0, DJB2([]byte("missing")), []byte("missing"), false)
	require.Equal(t, status.KeyNotFound, st)
}

func TestSetThenLookupFindsScalarObjectMember(t *testing.T) {
	buf, pos := newRootBuf(4096, arena.TagObject)
	key := []byte("lap")
	hash := DJB2(key)
	spec := EncodeScalar(arena.TagI64, []byte{1, 0, 0, 0, 0, 0, 0, 0})

	res, st := Set(buf, pos, 0, hash, key, false, spec)
	require.True(t, st.Ok())

	valOff, st := Lookup(buf, 0, hash, key, false)
	require.True(t, st.Ok())
	require.Equal(t, res.ValueTagOffset, valOff)
	require.Equal(t, arena.TagI64, buf[valOff])
}

func TestSetThenLookupFindsArrayElement(t *testing.T) {
	buf, pos := newRootBuf(4096, arena.TagArray)
	spec := EncodeScalar(arena.TagBool, []byte{1})

	res, st := Set(buf, pos, 0, 0, nil, true, spec)
	require.True(t, st.Ok())

	valOff, st := Lookup(buf, 0, 0, nil, true)
	require.True(t, st.Ok())
	require.Equal(t, res.ValueTagOffset, valOff)
}

func TestLookupManyKeysAllResolve(t *testing.T) {
	buf, pos := newRootBuf(1<<16, arena.TagObject)
	keys := make([][]byte, 0, 40)
	for i := 0; i < 40; i++ {
		k := []byte{byte('a' + i%26), byte('0' + i/26)}
		keys = append(keys, k)
		spec := EncodeScalar(arena.TagI64, []byte{byte(i), 0, 0, 0, 0, 0, 0, 0})
		res, st := Set(buf, pos, 0, DJB2(k), k, false, spec)
		require.True(t, st.Ok(), "insert %d", i)
		pos = res.Position
	}

	for i, k := range keys {
		valOff, st := Lookup(buf, 0, DJB2(k), k, false)
		require.True(t, st.Ok(), "lookup %d (%s)", i, k)
		require.Equal(t, arena.TagI64, buf[valOff])
	}
}

func TestKeyAtStripsTrailingNUL(t *testing.T) {
	buf, pos := newRootBuf(4096, arena.TagObject)
	key := []byte("name")
	spec := EncodeScalar(arena.TagNull, nil)
	res, st := Set(buf, pos, 0, DJB2(key), key, false, spec)
	require.True(t, st.Ok())

	got := keyAt(buf, At(buf, 0).KVOffset(0))
	require.Equal(t, key, got)
	_ = res
}
