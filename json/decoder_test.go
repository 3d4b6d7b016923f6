package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lite3io/lite3"
	"github.com/lite3io/lite3/internal/status"
	"github.com/lite3io/lite3/internal/testutil"
)

func TestDecodeBytesBasicObject(t *testing.T) {
	buf := lite3.NewGrowableBuffer()
	st := DecodeBytes([]byte(`{"event":"lap_complete","lap":56,"time_sec":88.427}`), buf)
	require.True(t, st.Ok(), "decode failed: %v", st)

	root := buf.Root()
	require.EqualValues(t, 3, root.Count())

	s, st := root.GetString("event")
	require.True(t, st.Ok())
	resolved, st := s.Resolve(&buf.Buffer)
	require.True(t, st.Ok())
	require.Equal(t, "lap_complete", resolved)

	lap, st := root.GetI64("lap")
	require.True(t, st.Ok())
	require.EqualValues(t, 56, lap)

	tm, st := root.GetF64("time_sec")
	require.True(t, st.Ok())
	require.InDelta(t, 88.427, tm, 1e-9)
}

func TestDecodeBytesNestedObjectsAndArrays(t *testing.T) {
	buf := lite3.NewGrowableBuffer()
	doc := `{"name":"periodic","elements":[{"symbol":"Os","density":22.59},{"symbol":"He","density":null}],"count":2}`
	st := DecodeBytes([]byte(doc), buf)
	require.True(t, st.Ok(), "decode failed: %v", st)

	root := buf.Root()
	elements, st := root.GetArray("elements")
	require.True(t, st.Ok())
	require.EqualValues(t, 2, elements.Count())

	first, st := elements.GetIndexedObject(0)
	require.True(t, st.Ok())
	sym, st := first.GetString("symbol")
	require.True(t, st.Ok())
	symStr, st := sym.Resolve(&buf.Buffer)
	require.True(t, st.Ok())
	require.Equal(t, "Os", symStr)

	second, st := elements.GetIndexedObject(1)
	require.True(t, st.Ok())
	require.True(t, second.GetNull("density").Ok())
}

func TestDecodeReaderStreamingWithSmallChunks(t *testing.T) {
	doc := `{"a":1,"b":[1,2,3,4,5],"c":{"d":"e"}}`
	r := testutil.NewChunkReader([]byte(doc), 3)

	buf := lite3.NewGrowableBuffer()
	st := Decode(r, buf)
	require.True(t, st.Ok(), "decode failed: %v", st)

	root := buf.Root()
	a, st := root.GetI64("a")
	require.True(t, st.Ok())
	require.EqualValues(t, 1, a)

	b, st := root.GetArray("b")
	require.True(t, st.Ok())
	require.EqualValues(t, 5, b.Count())

	c, st := root.GetObject("c")
	require.True(t, st.Ok())
	d, st := c.GetString("d")
	require.True(t, st.Ok())
	dStr, st := d.Resolve(&buf.Buffer)
	require.True(t, st.Ok())
	require.Equal(t, "e", dStr)
}

func TestDecodeRoundTripsThroughEncode(t *testing.T) {
	doc := `{"x":1,"y":[true,false,null,"s"]}`
	buf := lite3.NewGrowableBuffer()
	require.True(t, DecodeBytes([]byte(doc), buf).Ok())

	out, err := EncodeString(buf.Root())
	require.NoError(t, err)

	buf2 := lite3.NewGrowableBuffer()
	require.True(t, DecodeBytes([]byte(out), buf2).Ok())
	require.EqualValues(t, buf.Root().Count(), buf2.Root().Count())
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	buf := lite3.NewGrowableBuffer()
	st := DecodeBytes([]byte(`{"a":1} garbage`), buf)
	require.Equal(t, status.TrailingData, st)
}

func TestDecodeRejectsBareScalarAtRoot(t *testing.T) {
	buf := lite3.NewGrowableBuffer()
	st := DecodeBytes([]byte(`42`), buf)
	require.Equal(t, status.ExpectedJsonArrayOrObject, st)
}

func TestDecodeEnforcesNestingMax(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= lite3.JSONNestingMax; i++ {
		sb.WriteString(`{"n":`)
	}
	sb.WriteString("1")
	for i := 0; i <= lite3.JSONNestingMax; i++ {
		sb.WriteString("}")
	}

	buf := lite3.NewGrowableBuffer()
	st := DecodeBytes([]byte(sb.String()), buf)
	require.Equal(t, status.JsonNestingDepthExceededMax, st)
}

func TestDecodeTruncatedInputReportsNeedsMoreData(t *testing.T) {
	buf := lite3.NewGrowableBuffer()
	st := DecodeBytes([]byte(`{"a":1,"b":`), buf)
	require.Equal(t, status.NeedsMoreData, st)
}

func TestDecodeFixedBufferExhaustionPropagatesInsufficientBuffer(t *testing.T) {
	raw := make([]byte, 128)
	buf := lite3.NewFixedBuffer(raw)
	st := DecodeBytes([]byte(`{"long_key_that_does_not_fit":"a fairly long value string here that overflows"}`), buf)
	require.Equal(t, status.InsufficientBuffer, st)
}

func TestDecodeStreamingPeriodicTableFixture(t *testing.T) {
	data := generateSmallPeriodicTableFixture()
	r := bytes.NewReader(data)
	buf := lite3.NewGrowableBuffer()
	st := Decode(r, buf)
	require.True(t, st.Ok(), "decode failed: %v", st)

	elements, st := buf.Root().GetArray("elements")
	require.True(t, st.Ok())
	require.EqualValues(t, 3, elements.Count())
}

// generateSmallPeriodicTableFixture is a miniature stand-in for
// testdata/periodic_table.json, kept local so this test doesn't depend
// on the full ≥250KB fixture file.
func generateSmallPeriodicTableFixture() []byte {
	return []byte(`{"elements":[
		{"name":"Hydrogen","density_kg_per_m3":0.08988},
		{"name":"Osmium","density_kg_per_m3":22590.0},
		{"name":"Helium","density_kg_per_m3":0.1786}
	]}`)
}
