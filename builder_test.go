package lite3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderFluentObjectChain(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).
		SetString("event", "lap_complete").
		SetI64("lap", 1).
		SetF64("time_sec", 12.5).
		SetBool("pit", false)

	require.True(t, b.Err().Ok())
	require.EqualValues(t, 4, buf.Root().Count())
}

func TestBuilderNestedObjectsAndArrays(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).
		BeginObject("driver").
		SetString("name", "Ada").
		SetI64("number", 7).
		End().
		BeginArray("laps").
		BeginAppendObject().
		SetI64("lap", 1).
		End().
		BeginAppendObject().
		SetI64("lap", 2).
		End().
		End()

	require.True(t, b.Err().Ok())

	root := buf.Root()
	driver, st := root.GetObject("driver")
	require.True(t, st.Ok())
	name, st := driver.GetString("name")
	require.True(t, st.Ok())
	nameStr, st := name.Resolve(&buf.Buffer)
	require.True(t, st.Ok())
	require.Equal(t, "Ada", nameStr)

	laps, st := root.GetArray("laps")
	require.True(t, st.Ok())
	require.EqualValues(t, 2, laps.Count())
}

func TestBuilderLatchesFirstErrorAndNoOpsAfter(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).
		SetI64("x", 1).
		SetI64("", 2). // fails: empty key
		SetI64("y", 3) // must be a no-op: error already latched

	require.Equal(t, ExpectedNonEmptyKey, b.Err())
	require.False(t, buf.Root().Exists("y"))
	require.True(t, buf.Root().Exists("x"))
}

func TestBuilderEndAtRootIsNoOp(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).End().End().SetI64("x", 1)
	require.True(t, b.Err().Ok())
	require.True(t, b.Cursor().Exists("x"))
}

func TestBuilderArrayRootAppend(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewArrayBuilder(buf).AppendI64(1).AppendI64(2).AppendI64(3)
	require.True(t, b.Err().Ok())
	require.EqualValues(t, 3, buf.Root().Count())
}
