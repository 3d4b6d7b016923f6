// Package json implements the resumable JSON-to-Lite³ streaming
// decoder and a thin Lite³-to-JSON encoder built on the typed API.
package json

import (
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/lite3io/lite3"
	"github.com/lite3io/lite3/internal/bytepool"
	"github.com/lite3io/lite3/internal/status"
)

// target is satisfied by *lite3.FixedBuffer and *lite3.GrowableBuffer
// alike, so the decoder never needs to know which concrete buffer it
// is writing into.
type target interface {
	Init(rootTag byte) status.Status
	Root() lite3.Cursor
}

// DecodeOption configures a Decoder at construction.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	logger *log.Logger
	pool   *bytepool.Pool
}

// WithLogger attaches a diagnostic logger; suspend/resume and input
// feed events are logged at Printf level. A nil logger (the default)
// is silent.
func WithLogger(l *log.Logger) DecodeOption {
	return func(c *decodeConfig) { c.logger = l }
}

// WithPool overrides the pool used for oversized string/key scratch.
// Defaults to bytepool.Default.
func WithPool(p *bytepool.Pool) DecodeOption {
	return func(c *decodeConfig) { c.pool = p }
}

// Decoder drives the typed API from a stream of JSON tokens via an
// explicit frame stack, standing in for the call stack a recursive
// descent parser would use — one that, unlike a real call stack,
// can be captured, handed back to the driver, and resumed later.
type Decoder struct {
	scanner *scanner
	pool    *bytepool.Pool
	logger  *log.Logger
	id      uuid.UUID
	stack   []frame
	started bool
	readErr error
}

// NewDecoder returns a Decoder ready to drive DecodeBytes or
// DecodeReader. A single Decoder is not safe for concurrent decodes;
// construct one per in-flight document.
func NewDecoder(opts ...DecodeOption) *Decoder {
	cfg := decodeConfig{pool: bytepool.Default}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Decoder{
		scanner: newScanner(),
		pool:    cfg.pool,
		logger:  cfg.logger,
		id:      uuid.New(),
		stack:   make([]frame, 0, lite3.JSONNestingMax*2+1),
	}
}

// ReadError returns the first non-EOF error DecodeReader's underlying
// io.Reader produced, if any. A NeedsMoreData result from DecodeReader
// may be this error surfacing as a truncated-input condition rather
// than a genuine end-of-stream.
func (d *Decoder) ReadError() error { return d.readErr }

// DecodeBytes decodes a single bounded JSON document already held
// entirely in memory (the synchronous, final-block path) into buf,
// which must be freshly constructed (Decode calls Init itself).
func (d *Decoder) DecodeBytes(data []byte, buf target) status.Status {
	d.scanner.feed(data)
	d.scanner.setFinal()
	return d.run(buf)
}

// DecodeReader decodes a JSON document from r, pulling further input
// whenever the frame-stack state machine suspends on NeedsMoreData,
// until the document completes, the reader is exhausted mid-structure
// (NeedsMoreData, per the documented final-block convention), or a
// genuine decode error occurs.
func (d *Decoder) DecodeReader(r io.Reader, buf target) status.Status {
	chunk := make([]byte, 4096)
	for {
		st := d.run(buf)
		if st != status.NeedsMoreData || d.scanner.final {
			return st
		}
		n, err := r.Read(chunk)
		if n > 0 {
			d.scanner.feed(chunk[:n])
		}
		if d.logger != nil {
			d.logger.Printf("decoder fed %d bytes [%s]", n, d.id)
		}
		if err != nil {
			if err != io.EOF {
				d.readErr = err
			}
			d.scanner.setFinal()
		}
	}
}

// run drains whatever the scanner can tokenize from its currently
// buffered input, advancing the frame stack until it either needs
// more bytes, finishes, or fails outright.
func (d *Decoder) run(buf target) status.Status {
	for {
		if len(d.stack) == 0 {
			if !d.started {
				tok, st := d.scanner.next()
				if !st.Ok() {
					return st
				}
				switch tok.kind {
				case tokenStartObject:
					if ist := buf.Init(lite3.TagObject); !ist.Ok() {
						return ist
					}
					d.push(frame{kind: FrameObject, container: buf.Root()})
				case tokenStartArray:
					if ist := buf.Init(lite3.TagArray); !ist.Ok() {
						return ist
					}
					d.push(frame{kind: FrameArray, container: buf.Root()})
				default:
					return status.ExpectedJsonArrayOrObject
				}
				d.started = true
				continue
			}
			tok, st := d.scanner.next()
			if st == status.NeedsMoreData {
				return st
			}
			if !st.Ok() || tok.kind != tokenEOF {
				return status.TrailingData
			}
			return status.None
		}

		top := &d.stack[len(d.stack)-1]
		switch top.kind {
		case FrameObject:
			tok, st := d.nextToken()
			if !st.Ok() {
				return st
			}
			switch tok.kind {
			case tokenEndObject:
				d.pop()
			case tokenComma:
				// between members; the next token must be a property name.
			case tokenString:
				key, kst := d.decodeString(tok)
				if !kst.Ok() {
					return kst
				}
				top.key = key
				top.kind = FrameObjectSwitch
				top.colonConsumed = false
			default:
				return status.ExpectedJsonProperty
			}

		case FrameObjectSwitch:
			if !top.colonConsumed {
				tok, st := d.nextToken()
				if !st.Ok() {
					return st
				}
				if tok.kind != tokenColon {
					return status.ExpectedJsonProperty
				}
				top.colonConsumed = true
			}
			tok, st := d.nextToken()
			if !st.Ok() {
				return st
			}
			if dst := d.dispatchObjectValue(top, tok); !dst.Ok() {
				return dst
			}

		case FrameArray:
			tok, st := d.nextToken()
			if !st.Ok() {
				return st
			}
			switch tok.kind {
			case tokenEndArray:
				d.pop()
			case tokenComma:
				// between elements; the next token must be a value.
			default:
				if dst := d.dispatchArrayValue(top, tok); !dst.Ok() {
					return dst
				}
			}
		}
	}
}

// nextToken wraps scanner.next, converting an end-of-input token into
// NeedsMoreData whenever it arrives with the frame stack non-empty:
// running out of bytes mid-structure is indistinguishable, at this
// layer, from simply needing more of them.
func (d *Decoder) nextToken() (token, status.Status) {
	tok, st := d.scanner.next()
	if st == status.None && tok.kind == tokenEOF {
		return token{}, status.NeedsMoreData
	}
	return tok, st
}

func (d *Decoder) push(f frame) { d.stack = append(d.stack, f) }
func (d *Decoder) pop()         { d.stack = d.stack[:len(d.stack)-1] }

// dispatchObjectValue consumes one value token against top's pending
// key. Scalars return the frame to FrameObject, awaiting the next
// member; containers push a new frame and leave top awaiting the next
// member once the child is later popped.
func (d *Decoder) dispatchObjectValue(top *frame, tok token) status.Status {
	switch tok.kind {
	case tokenNull:
		if st := top.container.SetNull(top.key); !st.Ok() {
			return st
		}
	case tokenTrue:
		if st := top.container.SetBool(top.key, true); !st.Ok() {
			return st
		}
	case tokenFalse:
		if st := top.container.SetBool(top.key, false); !st.Ok() {
			return st
		}
	case tokenNumber:
		i, f, isInt, st := parseNumber(tok.raw)
		if !st.Ok() {
			return st
		}
		if isInt {
			if st := top.container.SetI64(top.key, i); !st.Ok() {
				return st
			}
		} else if st := top.container.SetF64(top.key, f); !st.Ok() {
			return st
		}
	case tokenString:
		s, st := d.decodeString(tok)
		if !st.Ok() {
			return st
		}
		if st := top.container.SetString(top.key, s); !st.Ok() {
			return st
		}
	case tokenStartObject:
		if len(d.stack)+1 > lite3.JSONNestingMax {
			return status.JsonNestingDepthExceededMax
		}
		child, st := top.container.SetObject(top.key)
		if !st.Ok() {
			return st
		}
		top.kind, top.key, top.colonConsumed = FrameObject, "", false
		d.push(frame{kind: FrameObject, container: child})
		return status.None
	case tokenStartArray:
		if len(d.stack)+1 > lite3.JSONNestingMax {
			return status.JsonNestingDepthExceededMax
		}
		child, st := top.container.SetArray(top.key)
		if !st.Ok() {
			return st
		}
		top.kind, top.key, top.colonConsumed = FrameObject, "", false
		d.push(frame{kind: FrameArray, container: child})
		return status.None
	default:
		return status.ExpectedJsonValue
	}
	top.kind, top.key, top.colonConsumed = FrameObject, "", false
	return status.None
}

// dispatchArrayValue is dispatchObjectValue's Array counterpart: no
// key and no colon, and a container push leaves top as FrameArray
// unchanged (it already awaits the next element once its child pops).
func (d *Decoder) dispatchArrayValue(top *frame, tok token) status.Status {
	switch tok.kind {
	case tokenNull:
		return top.container.AppendNull()
	case tokenTrue:
		return top.container.AppendBool(true)
	case tokenFalse:
		return top.container.AppendBool(false)
	case tokenNumber:
		i, f, isInt, st := parseNumber(tok.raw)
		if !st.Ok() {
			return st
		}
		if isInt {
			return top.container.AppendI64(i)
		}
		return top.container.AppendF64(f)
	case tokenString:
		s, st := d.decodeString(tok)
		if !st.Ok() {
			return st
		}
		return top.container.AppendString(s)
	case tokenStartObject:
		if len(d.stack)+1 > lite3.JSONNestingMax {
			return status.JsonNestingDepthExceededMax
		}
		child, st := top.container.AppendObject()
		if !st.Ok() {
			return st
		}
		d.push(frame{kind: FrameObject, container: child})
		return status.None
	case tokenStartArray:
		if len(d.stack)+1 > lite3.JSONNestingMax {
			return status.JsonNestingDepthExceededMax
		}
		child, st := top.container.AppendArray()
		if !st.Ok() {
			return st
		}
		d.push(frame{kind: FrameArray, container: child})
		return status.None
	default:
		return status.ExpectedJsonValue
	}
}

// Decode decodes a full JSON document from r into buf in one call,
// constructing a fresh Decoder.
func Decode(r io.Reader, buf target, opts ...DecodeOption) status.Status {
	return NewDecoder(opts...).DecodeReader(r, buf)
}

// DecodeBytes decodes a JSON document already held in memory into buf,
// constructing a fresh Decoder.
func DecodeBytes(data []byte, buf target, opts ...DecodeOption) status.Status {
	return NewDecoder(opts...).DecodeBytes(data, buf)
}
