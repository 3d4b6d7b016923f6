package lite3

import "github.com/lite3io/lite3/internal/status"

// Builder is a fluent, chainable wrapper over the typed API: a document
// is assembled by a sequence of Set*/Begin*/End calls instead of
// checking a Status after every call. The first failing Status is
// latched and every subsequent call becomes a no-op, so a long chain
// can be built without an error check between every link; callers
// inspect the outcome once via Err.
type Builder struct {
	stack []Cursor
	err   status.Status
}

// documentBuffer is satisfied by *FixedBuffer and *GrowableBuffer alike
// (both promote Init/Root from their embedded Buffer), so a Builder
// never needs to know which concrete buffer backs it.
type documentBuffer interface {
	Init(rootTag byte) status.Status
	Root() Cursor
}

// NewObjectBuilder initializes buf as an empty root Object and returns
// a Builder positioned on it.
func NewObjectBuilder(buf documentBuffer) *Builder {
	return newBuilder(buf, TagObject)
}

// NewArrayBuilder initializes buf as an empty root Array and returns a
// Builder positioned on it.
func NewArrayBuilder(buf documentBuffer) *Builder {
	return newBuilder(buf, TagArray)
}

func newBuilder(buf documentBuffer, rootTag byte) *Builder {
	b := &Builder{}
	if st := buf.Init(rootTag); !st.Ok() {
		b.err = st
		return b
	}
	b.stack = []Cursor{buf.Root()}
	return b
}

// Err returns the first failing Status encountered, or status.None if
// every call so far has succeeded.
func (b *Builder) Err() status.Status { return b.err }

func (b *Builder) cur() Cursor { return b.stack[len(b.stack)-1] }

func (b *Builder) fail(st status.Status) *Builder {
	if b.err == status.None {
		b.err = st
	}
	return b
}

func (b *Builder) ok() bool { return b.err == status.None }

// SetNull/SetBool/.../SetBytes write a scalar member of the current
// Object. Calling them while the current container is an Array fails
// with ExpectedObject, latched like any other error.

func (b *Builder) SetNull(key string) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().SetNull(key); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) SetBool(key string, v bool) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().SetBool(key, v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) SetI64(key string, v int64) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().SetI64(key, v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) SetF64(key string, v float64) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().SetF64(key, v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) SetString(key string, v string) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().SetString(key, v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) SetBytes(key string, v []byte) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().SetBytes(key, v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

// BeginObject creates key as a nested Object and descends into it;
// pair with End to return to the parent container.
func (b *Builder) BeginObject(key string) *Builder {
	if !b.ok() {
		return b
	}
	child, st := b.cur().SetObject(key)
	if !st.Ok() {
		return b.fail(st)
	}
	b.stack = append(b.stack, child)
	return b
}

// BeginArray creates key as a nested Array and descends into it.
func (b *Builder) BeginArray(key string) *Builder {
	if !b.ok() {
		return b
	}
	child, st := b.cur().SetArray(key)
	if !st.Ok() {
		return b.fail(st)
	}
	b.stack = append(b.stack, child)
	return b
}

// AppendNull/.../AppendBytes append a scalar element to the current
// Array.

func (b *Builder) AppendNull() *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().AppendNull(); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) AppendBool(v bool) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().AppendBool(v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) AppendI64(v int64) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().AppendI64(v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) AppendF64(v float64) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().AppendF64(v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) AppendString(v string) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().AppendString(v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

func (b *Builder) AppendBytes(v []byte) *Builder {
	if !b.ok() {
		return b
	}
	if st := b.cur().AppendBytes(v); !st.Ok() {
		return b.fail(st)
	}
	return b
}

// BeginAppendObject appends a new Object element and descends into it.
func (b *Builder) BeginAppendObject() *Builder {
	if !b.ok() {
		return b
	}
	child, st := b.cur().AppendObject()
	if !st.Ok() {
		return b.fail(st)
	}
	b.stack = append(b.stack, child)
	return b
}

// BeginAppendArray appends a new Array element and descends into it.
func (b *Builder) BeginAppendArray() *Builder {
	if !b.ok() {
		return b
	}
	child, st := b.cur().AppendArray()
	if !st.Ok() {
		return b.fail(st)
	}
	b.stack = append(b.stack, child)
	return b
}

// End returns to the parent container after a Begin* call. Calling End
// at the document root is a no-op so a chain can close out uniformly.
func (b *Builder) End() *Builder {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

// Cursor returns the current container, for escaping into the typed
// API directly (e.g. to iterate what was just built).
func (b *Builder) Cursor() Cursor { return b.cur() }
