// Package status defines Lite³'s single signed result channel, shared by
// the public lite3 package and every internal engine package
// (internal/arena, internal/node) without creating an import cycle back
// up to the package that re-exports it as lite3.Status.
package status

import "fmt"

// Status is the single signed result channel used by every fallible
// Lite³ operation. Negative values are failures, zero is nominal
// success, and positive values are in-band sentinels a caller may act on
// (GrewBuffer, IteratorItem, IteratorDone) rather than treat as errors.
type Status int

// None is nominal success.
const None Status = 0

// Positive sentinels: informational, not failures.
const (
	GrewBuffer   Status = 1
	IteratorItem Status = 2
	IteratorDone Status = 3
)

// Negative failures, grouped by concern.
const (
	// Structural: corruption or misuse of an already-built buffer.
	KeyEntryOutOfBounds            Status = -1
	KeyTagSizeDoesNotMatch         Status = -2
	ValueOutOfBounds               Status = -3
	ValueKindInvalid               Status = -4
	NodeOffsetNotAligned           Status = -5
	NodeWalksOffsetOutOfBounds     Status = -6
	NodeWalksExceededTreeHeightMax Status = -7
	StartOffsetOutOfBounds         Status = -8
	HashProbeLimitReached          Status = -9
	InvalidIterator                Status = -10

	// Semantic: well-formed buffer, wrong usage.
	ExpectedObject        Status = -20
	ExpectedArray         Status = -21
	ExpectedArrayOrObject Status = -22
	ExpectedNonEmptyKey   Status = -23
	ValueKindDoesNotMatch Status = -24
	KeyNotFound           Status = -25
	ArrayIndexOutOfBounds Status = -26
	MutatedBuffer         Status = -27

	// Capacity: resource exhaustion.
	InsufficientBuffer Status = -40

	// Decoder: JSON input problems.
	ExpectedJsonProperty        Status = -50
	ExpectedJsonArrayOrObject   Status = -51
	ExpectedJsonValue           Status = -52
	JsonNestingDepthExceededMax Status = -53
	NeedsMoreData               Status = -54
	TrailingData                Status = -55

	// KeyHashCollision is internal-only: handled by the probe
	// loop in internal/node and never surfaced to a caller of the
	// public API.
	KeyHashCollision Status = -100
)

func (s Status) String() string {
	switch s {
	case None:
		return "None"
	case GrewBuffer:
		return "GrewBuffer"
	case IteratorItem:
		return "IteratorItem"
	case IteratorDone:
		return "IteratorDone"
	case KeyEntryOutOfBounds:
		return "KeyEntryOutOfBounds"
	case KeyTagSizeDoesNotMatch:
		return "KeyTagSizeDoesNotMatch"
	case ValueOutOfBounds:
		return "ValueOutOfBounds"
	case ValueKindInvalid:
		return "ValueKindInvalid"
	case NodeOffsetNotAligned:
		return "NodeOffsetNotAligned"
	case NodeWalksOffsetOutOfBounds:
		return "NodeWalksOffsetOutOfBounds"
	case NodeWalksExceededTreeHeightMax:
		return "NodeWalksExceededTreeHeightMax"
	case StartOffsetOutOfBounds:
		return "StartOffsetOutOfBounds"
	case HashProbeLimitReached:
		return "HashProbeLimitReached"
	case InvalidIterator:
		return "InvalidIterator"
	case ExpectedObject:
		return "ExpectedObject"
	case ExpectedArray:
		return "ExpectedArray"
	case ExpectedArrayOrObject:
		return "ExpectedArrayOrObject"
	case ExpectedNonEmptyKey:
		return "ExpectedNonEmptyKey"
	case ValueKindDoesNotMatch:
		return "ValueKindDoesNotMatch"
	case KeyNotFound:
		return "KeyNotFound"
	case ArrayIndexOutOfBounds:
		return "ArrayIndexOutOfBounds"
	case MutatedBuffer:
		return "MutatedBuffer"
	case InsufficientBuffer:
		return "InsufficientBuffer"
	case ExpectedJsonProperty:
		return "ExpectedJsonProperty"
	case ExpectedJsonArrayOrObject:
		return "ExpectedJsonArrayOrObject"
	case ExpectedJsonValue:
		return "ExpectedJsonValue"
	case JsonNestingDepthExceededMax:
		return "JsonNestingDepthExceededMax"
	case NeedsMoreData:
		return "NeedsMoreData"
	case TrailingData:
		return "TrailingData"
	case KeyHashCollision:
		return "KeyHashCollision"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Ok reports whether s is None or a positive sentinel, i.e. not a failure.
func (s Status) Ok() bool { return s >= 0 }

// Err adapts a Status to the error interface. It returns nil for None
// and for positive sentinels, since those are not failures.
func (s Status) Err() error {
	if s.Ok() {
		return nil
	}
	return &OpError{Status: s}
}

// OpError wraps a failing Status with optional caller-supplied context:
// a thin struct carrying a cause plus a human-readable breadcrumb.
type OpError struct {
	Status  Status
	Context string
}

func (e *OpError) Error() string {
	if e.Context == "" {
		return e.Status.String()
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Status.String())
}

// Unwrap exposes the underlying status as a comparable sentinel error so
// errors.Is(err, SomeStatus.Err()) style comparisons work.
func (e *OpError) Unwrap() error {
	return sentinel(e.Status)
}

type sentinel Status

func (s sentinel) Error() string { return Status(s).String() }

// WithContext returns a copy of the error with Context set, mirroring
// WrapError's "context: cause" composition.
func WithContext(context string, s Status) error {
	if s.Ok() {
		return nil
	}
	return &OpError{Status: s, Context: context}
}
