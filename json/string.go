package json

import (
	"strconv"
	"unicode/utf8"

	"github.com/lite3io/lite3/internal/status"
)

// onStackScratch is the threshold below which an escaped string or
// property name is unescaped into a stack-local array instead of a
// pooled allocation.
const onStackScratch = 256

// decodeString materializes a token's string value. An unescaped
// token's bytes pass straight through as a Go string (already a single
// copy, same as any []byte-to-string conversion); an escaped token is
// unescaped first, using stack scratch for short values and a pooled
// buffer for long ones.
//
// This is also where a pending Object key is made safe to hold across
// a decoder suspension: by the time this returns, the key is a
// standalone Go string, no longer aliasing the scanner's buffer, so
// it can ride in frame.key through any number of subsequent feed
// calls untouched.
func (d *Decoder) decodeString(tok token) (string, status.Status) {
	if !tok.escaped {
		return string(tok.raw), status.None
	}
	if len(tok.raw) <= onStackScratch {
		var scratch [onStackScratch]byte
		n, st := unescapeJSON(scratch[:0], tok.raw)
		if !st.Ok() {
			return "", st
		}
		return string(scratch[:n]), status.None
	}
	pooled := d.pool.Borrow(nil)
	defer d.pool.Put(pooled)
	// unescapeJSON appends into dst's backing array, and an unescaped
	// string is never longer than its escaped form, so reserving
	// len(tok.raw) up front keeps every append inside pooled.B.
	if cap(pooled.B) < len(tok.raw) {
		pooled.B = make([]byte, 0, len(tok.raw))
	}
	out, st := unescapeJSON(pooled.B[:0], tok.raw)
	if !st.Ok() {
		return "", st
	}
	return string(pooled.B[:out]), status.None
}

// unescapeJSON appends the unescaped form of raw (the bytes between
// a string token's quotes) to dst and returns the new length. dst may
// be a stack array slice or a pooled buffer's backing slice.
func unescapeJSON(dst, raw []byte) (int, status.Status) {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			dst = append(dst, c)
			continue
		}
		i++
		if i >= len(raw) {
			return 0, status.ExpectedJsonValue
		}
		switch raw[i] {
		case '"':
			dst = append(dst, '"')
		case '\\':
			dst = append(dst, '\\')
		case '/':
			dst = append(dst, '/')
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			if i+4 >= len(raw) {
				return 0, status.ExpectedJsonValue
			}
			r, ok := decodeHex4(raw[i+1 : i+5])
			if !ok {
				return 0, status.ExpectedJsonValue
			}
			i += 4
			if utf16IsHighSurrogate(r) && i+6 < len(raw) && raw[i+1] == '\\' && raw[i+2] == 'u' {
				if low, ok2 := decodeHex4(raw[i+3 : i+7]); ok2 && utf16IsLowSurrogate(low) {
					r = utf16Decode(r, low)
					i += 6
				}
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], r)
			dst = append(dst, buf[:n]...)
		default:
			return 0, status.ExpectedJsonValue
		}
	}
	return len(dst), status.None
}

func decodeHex4(b []byte) (rune, bool) {
	v, err := strconv.ParseUint(string(b), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true //nolint:gosec // masked to 16 bits by ParseUint's bitSize
}

func utf16IsHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func utf16IsLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }

func utf16Decode(hi, lo rune) rune {
	return ((hi - 0xD800) << 10) | (lo - 0xDC00) + 0x10000
}

// parseNumber tries int64 first, falling back to float64 — matching
// the typed API's two numeric value kinds. A literal with a decimal
// point or exponent always fails the int64 parse and falls through.
func parseNumber(raw []byte) (i64 int64, f64 float64, isInt bool, st status.Status) {
	s := string(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, 0, true, status.None
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return 0, f, false, status.None
	}
	return 0, 0, false, status.ExpectedJsonValue
}
