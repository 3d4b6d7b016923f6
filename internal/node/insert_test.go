package node

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lite3io/lite3/internal/arena"
	"github.com/lite3io/lite3/internal/status"
)

// makeStringPayload builds a String value payload the way the root
// package's setters do: a 4-byte length prefix counting the trailing
// NUL, the content, then the NUL itself.
func makeStringPayload(s string) []byte {
	b := make([]byte, 4+len(s)+1)
	binary.LittleEndian.PutUint32(b[:4], uint32(len(s)+1)) //nolint:gosec
	copy(b[4:], s)
	return b
}

func TestOverwriteMatchInPlaceKeepsEntryStart(t *testing.T) {
	buf, pos := newRootBuf(4096, arena.TagObject)
	key := []byte("v")
	hash := DJB2(key)

	res1, st := Set(buf, pos, 0, hash, key, false, EncodeScalar(arena.TagI64, []byte{1, 0, 0, 0, 0, 0, 0, 0}))
	require.True(t, st.Ok())

	// Same-size payload: overwrite in place, kv_offset unchanged.
	res2, st := Set(buf, res1.Position, 0, hash, key, false, EncodeScalar(arena.TagI64, []byte{9, 0, 0, 0, 0, 0, 0, 0}))
	require.True(t, st.Ok())
	require.Equal(t, res1.ValueTagOffset, res2.ValueTagOffset)
	require.Equal(t, res1.Position, res2.Position, "match-in-place must not advance the tail")

	valOff, st := Lookup(buf, 0, hash, key, false)
	require.True(t, st.Ok())
	require.Equal(t, byte(9), buf[valOff+1])
}

func TestOverwriteMatchButLargerMovesEntry(t *testing.T) {
	buf, pos := newRootBuf(4096, arena.TagObject)
	key := []byte("s")
	hash := DJB2(key)

	res1, st := Set(buf, pos, 0, hash, key, false, EncodeScalar(arena.TagString, makeStringPayload("hi")))
	require.True(t, st.Ok())

	res2, st := Set(buf, res1.Position, 0, hash, key, false, EncodeScalar(arena.TagString, makeStringPayload("hello")))
	require.True(t, st.Ok())
	require.Greater(t, res2.Position, res1.Position, "match-but-larger must re-emit at the tail")
	require.NotEqual(t, res1.ValueTagOffset, res2.ValueTagOffset)

	valOff, st := Lookup(buf, 0, hash, key, false)
	require.True(t, st.Ok())
	require.Equal(t, res2.ValueTagOffset, valOff)
}

func TestSetReportsInsufficientBufferWithoutPartialWrite(t *testing.T) {
	buf, pos := newRootBuf(arena.NodeSize+8, arena.TagObject)
	key := []byte("toolong")
	_, st := Set(buf, pos, 0, DJB2(key), key, false, EncodeScalar(arena.TagString, make([]byte, 64)))
	require.Equal(t, status.InsufficientBuffer, st)
	require.Equal(t, make([]byte, len(buf)-pos), buf[pos:], "a failed Set must leave the tail untouched")
}

func TestInsertFreshAppendsToArrayBySuccessiveIndices(t *testing.T) {
	buf, pos := newRootBuf(1<<16, arena.TagArray)
	for i := 0; i < 5; i++ {
		res, st := Set(buf, pos, 0, uint32(i), nil, true, EncodeScalar(arena.TagI64, []byte{byte(i), 0, 0, 0, 0, 0, 0, 0}))
		require.True(t, st.Ok(), "append %d", i)
		pos = res.Position
	}
	root := At(buf, 0)
	require.Equal(t, 5, root.KeyCount())
	require.EqualValues(t, 5, root.Size())
}

func TestInsertFreshTriggersRootSplitPastKeyCountMax(t *testing.T) {
	buf, pos := newRootBuf(1<<16, arena.TagObject)
	n := arena.KeyCountMax + 1 // one past a single node's capacity
	for i := 0; i < n; i++ {
		k := []byte{byte('a' + i)}
		res, st := Set(buf, pos, 0, DJB2(k), k, false, EncodeScalar(arena.TagI64, []byte{byte(i), 0, 0, 0, 0, 0, 0, 0}))
		require.True(t, st.Ok(), "insert %d", i)
		pos = res.Position
	}

	root := At(buf, 0)
	require.False(t, root.IsLeaf(), "root must have split into an internal node")
	require.EqualValues(t, n, root.Size(), "size_kc tracks total entries, not just the root node's own key_count")

	// Every inserted key must still resolve correctly after the split.
	for i := 0; i < n; i++ {
		k := []byte{byte('a' + i)}
		valOff, st := Lookup(buf, 0, DJB2(k), k, false)
		require.True(t, st.Ok(), "post-split lookup %d", i)
		require.Equal(t, arena.TagI64, buf[valOff])
	}
}

func TestBumpRootAdvancesGenerationOnEveryMutation(t *testing.T) {
	buf, pos := newRootBuf(4096, arena.TagObject)
	g0 := arena.GenerationOf(buf)
	key := []byte("k")
	_, st := Set(buf, pos, 0, DJB2(key), key, false, EncodeScalar(arena.TagNull, nil))
	require.True(t, st.Ok())
	require.Greater(t, arena.GenerationOf(buf), g0)
}

// TestOverwriteForcesMatchButLargerWhenContainerWouldMisalign verifies
// that overwriting an oversized scalar slot with a container value
// never writes the new 96-byte node at an unaligned offset: a slot
// long enough by byte count alone but not 4-byte aligned must still
// fall through to the match-but-larger re-emit path, never
// match-in-place.
func TestOverwriteForcesMatchButLargerWhenContainerWouldMisalign(t *testing.T) {
	for pad := 0; pad < 4; pad++ {
		buf, pos := newRootBuf(1<<16, arena.TagObject)

		if pad > 0 {
			padKey := bytes.Repeat([]byte{'p'}, pad)
			res, st := Set(buf, pos, 0, DJB2(padKey), padKey, false, EncodeScalar(arena.TagNull, nil))
			require.True(t, st.Ok(), "pad=%d", pad)
			pos = res.Position
		}

		key := []byte("longstr")
		longVal := string(bytes.Repeat([]byte{'x'}, 120)) // payload len 125 > NodeSize(96)
		res, st := Set(buf, pos, 0, DJB2(key), key, false, EncodeScalar(arena.TagString, makeStringPayload(longVal)))
		require.True(t, st.Ok(), "pad=%d", pad)
		pos = res.Position
		valueOff := res.ValueTagOffset
		wasAligned := arena.IsAligned(valueOff + 1)

		res2, st := Set(buf, pos, 0, DJB2(key), key, false, EncodeContainer(arena.TagObject))
		require.True(t, st.Ok(), "pad=%d", pad)

		require.True(t, arena.IsAligned(res2.ChildOffset), "pad=%d: child node must always land 4-byte aligned", pad)
		if !wasAligned {
			require.Greater(t, res2.Position, pos, "pad=%d: misaligned slot must force a match-but-larger re-emit", pad)
			require.NotEqual(t, valueOff, res2.ValueTagOffset, "pad=%d", pad)
		}
	}
}
