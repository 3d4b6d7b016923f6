package lite3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeStringSimpleObject(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).
		SetString("event", "lap_complete").
		SetI64("lap", 55).
		SetBool("valid", true).
		SetNull("notes")
	require.True(t, b.Err().Ok())

	out, err := EncodeString(buf.Root())
	require.NoError(t, err)
	require.Contains(t, out, `"event":"lap_complete"`)
	require.Contains(t, out, `"lap":55`)
	require.Contains(t, out, `"valid":true`)
	require.Contains(t, out, `"notes":null`)
}

func TestEncodeStringArray(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewArrayBuilder(buf).AppendI64(1).AppendI64(2).AppendString("three")
	require.True(t, b.Err().Ok())

	out, err := EncodeString(buf.Root())
	require.NoError(t, err)
	require.Equal(t, `[1,2,"three"]`, out)
}

func TestEncodeEscapesControlCharactersAsJSON(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).SetString("s", "line\nbreak\ttab\"quote")
	require.True(t, b.Err().Ok())

	out, err := EncodeString(buf.Root())
	require.NoError(t, err)
	require.Contains(t, out, `\n`)
	require.Contains(t, out, `\t`)
	require.Contains(t, out, `\"`)
}

func TestEncodeBytesAsBase64(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).SetBytes("blob", []byte("hi"))
	require.True(t, b.Err().Ok())

	out, err := EncodeString(buf.Root())
	require.NoError(t, err)
	require.Contains(t, out, `"blob":"aGk="`)
}

func TestEncodeNestedStructure(t *testing.T) {
	buf := NewGrowableBuffer()
	b := NewObjectBuilder(buf).
		BeginObject("inner").
		SetI64("x", 1).
		End()
	require.True(t, b.Err().Ok())

	out, err := EncodeString(buf.Root())
	require.NoError(t, err)
	require.Equal(t, `{"inner":{"x":1}}`, out)
}
