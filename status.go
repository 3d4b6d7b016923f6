package lite3

import "github.com/lite3io/lite3/internal/status"

// Status is the single signed result channel used by every fallible
// Lite³ operation. Negative values are failures, zero (None)
// is nominal success, and positive values are in-band sentinels a
// caller may choose to act on (GrewBuffer, IteratorItem, IteratorDone)
// rather than treat as errors.
type Status = status.Status

// OpError wraps a failing Status with optional caller-supplied context.
type OpError = status.OpError

// Re-exported status sentinels; see internal/status for definitions.
const (
	None         = status.None
	GrewBuffer   = status.GrewBuffer
	IteratorItem = status.IteratorItem
	IteratorDone = status.IteratorDone

	KeyEntryOutOfBounds            = status.KeyEntryOutOfBounds
	KeyTagSizeDoesNotMatch         = status.KeyTagSizeDoesNotMatch
	ValueOutOfBounds               = status.ValueOutOfBounds
	ValueKindInvalid               = status.ValueKindInvalid
	NodeOffsetNotAligned           = status.NodeOffsetNotAligned
	NodeWalksOffsetOutOfBounds     = status.NodeWalksOffsetOutOfBounds
	NodeWalksExceededTreeHeightMax = status.NodeWalksExceededTreeHeightMax
	StartOffsetOutOfBounds         = status.StartOffsetOutOfBounds
	HashProbeLimitReached          = status.HashProbeLimitReached
	InvalidIterator                = status.InvalidIterator

	ExpectedObject        = status.ExpectedObject
	ExpectedArray         = status.ExpectedArray
	ExpectedArrayOrObject = status.ExpectedArrayOrObject
	ExpectedNonEmptyKey   = status.ExpectedNonEmptyKey
	ValueKindDoesNotMatch = status.ValueKindDoesNotMatch
	KeyNotFound           = status.KeyNotFound
	ArrayIndexOutOfBounds = status.ArrayIndexOutOfBounds
	MutatedBuffer         = status.MutatedBuffer

	InsufficientBuffer = status.InsufficientBuffer

	ExpectedJsonProperty        = status.ExpectedJsonProperty
	ExpectedJsonArrayOrObject   = status.ExpectedJsonArrayOrObject
	ExpectedJsonValue           = status.ExpectedJsonValue
	JsonNestingDepthExceededMax = status.JsonNestingDepthExceededMax
	NeedsMoreData               = status.NeedsMoreData
	TrailingData                = status.TrailingData
)
