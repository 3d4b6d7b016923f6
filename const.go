package lite3

import "github.com/lite3io/lite3/internal/arena"

// Value tags. A value is always prefixed by one of these bytes; a tag
// of TagInvalidMin or greater is rejected on read.
const (
	TagNull       = arena.TagNull
	TagBool       = arena.TagBool
	TagI64        = arena.TagI64
	TagF64        = arena.TagF64
	TagBytes      = arena.TagBytes
	TagString     = arena.TagString
	TagObject     = arena.TagObject
	TagArray      = arena.TagArray
	TagInvalidMin = arena.TagInvalidMin
)

// Core layout constants.
const (
	NodeSize      = arena.NodeSize
	NodeAlign     = arena.NodeAlign
	KeyCountMax   = arena.KeyCountMax
	KeyCountMin   = arena.KeyCountMin
	TreeHeightMax = arena.TreeHeightMax
	HashProbeMax  = arena.HashProbeMax
	KeyTagSizeMax = arena.KeyTagSizeMax
)

// Buffer sizing (grow policy).
const (
	MinBuf = arena.MinBuf
	MaxBuf = arena.MaxBuf
)

// JSON decoder constants, shared with package json.
const (
	// JSONNestingMax bounds the depth of nested objects/arrays the
	// decoder accepts before failing with JsonNestingDepthExceededMax.
	JSONNestingMax = 64
)
