package lite3

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// Encode writes c's subtree to w as RFC 8259 JSON, recursively walking
// the typed API rather than the raw bytes. Bytes values are emitted as
// Base64 strings, the one deliberate extension beyond plain JSON.
// Object key order follows the tree's hash order, not insertion order.
func Encode(w io.Writer, c Cursor) error {
	e := &jsonEncoder{w: w}
	e.encodeValue(c.Tag(), c)
	return e.err
}

// EncodeString is a convenience wrapper returning the encoded document
// as a string.
func EncodeString(c Cursor) (string, error) {
	var sb strings.Builder
	if err := Encode(&sb, c); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// jsonEncoder accumulates the first write error and becomes a no-op
// thereafter, so the recursive walk never needs to thread an error
// return through every call.
type jsonEncoder struct {
	w   io.Writer
	err error
}

func (e *jsonEncoder) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *jsonEncoder) encodeValue(tag byte, c Cursor) {
	switch tag {
	case TagObject:
		e.encodeObject(c)
	case TagArray:
		e.encodeArray(c)
	}
}

func (e *jsonEncoder) encodeObject(c Cursor) {
	e.write("{")
	it := c.Iterate()
	first := true
	for {
		st := it.Next()
		if st == IteratorDone {
			break
		}
		if !st.Ok() {
			if e.err == nil {
				e.err = st.Err()
			}
			break
		}
		if !first {
			e.write(",")
		}
		first = false
		e.write(quoteJSON(it.Key()))
		e.write(":")
		e.encodeIterated(it)
	}
	e.write("}")
}

func (e *jsonEncoder) encodeArray(c Cursor) {
	e.write("[")
	it := c.Iterate()
	first := true
	for {
		st := it.Next()
		if st == IteratorDone {
			break
		}
		if !st.Ok() {
			if e.err == nil {
				e.err = st.Err()
			}
			break
		}
		if !first {
			e.write(",")
		}
		first = false
		e.encodeIterated(it)
	}
	e.write("]")
}

func (e *jsonEncoder) encodeIterated(it *Iterator) {
	switch it.Tag() {
	case TagNull:
		e.write("null")
	case TagBool:
		if it.Bool() {
			e.write("true")
		} else {
			e.write("false")
		}
	case TagI64:
		e.write(strconv.FormatInt(it.I64(), 10))
	case TagF64:
		e.write(strconv.FormatFloat(it.F64(), 'g', -1, 64))
	case TagString:
		s, st := it.String().Resolve(it.buf)
		if !st.Ok() {
			if e.err == nil {
				e.err = st.Err()
			}
			return
		}
		e.write(quoteJSON(s))
	case TagBytes:
		raw, st := it.Bytes().Resolve(it.buf)
		if !st.Ok() {
			if e.err == nil {
				e.err = st.Err()
			}
			return
		}
		e.write(quoteJSON(base64.StdEncoding.EncodeToString(raw)))
	case TagObject:
		e.encodeObject(it.Object())
	case TagArray:
		e.encodeArray(it.Array())
	}
}

// quoteJSON renders s as a JSON string literal via encoding/json, which
// (unlike strconv.Quote) produces valid JSON escapes for every control
// character.
func quoteJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
