package json

import (
	"io"

	"github.com/lite3io/lite3"
)

// Encode writes c as JSON to w. It is a thin re-export of the root
// package's recursive-walk encoder, kept under package json so a
// caller working entirely through lite3/json for decode doesn't also
// need to import the root package just to encode the result back out.
func Encode(w io.Writer, c lite3.Cursor) error {
	return lite3.Encode(w, c)
}

// EncodeString is Encode's string-returning convenience form.
func EncodeString(c lite3.Cursor) (string, error) {
	return lite3.EncodeString(c)
}
