package models

// OpKind classifies one segment of a two-sequence diff.
type OpKind int

const (
	// OpEqual marks ranges whose lines are identical.
	OpEqual OpKind = iota
	// OpReplace marks ranges that differ on both sides.
	OpReplace
	// OpDelete marks a source range with no target counterpart.
	OpDelete
	// OpInsert marks a target range with no source counterpart.
	OpInsert
)

func (k OpKind) String() string {
	switch k {
	case OpEqual:
		return "equal"
	case OpReplace:
		return "replace"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Range is a half-open index range [Lo, Hi).
type Range struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// Len returns the number of indexes in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Empty reports whether the range holds no index.
func (r Range) Empty() bool {
	return r.Hi <= r.Lo
}

// AlignmentOp is one classified segment of an alignment.
type AlignmentOp struct {
	// Kind is the segment classification.
	Kind OpKind `json:"kind"`
	// Source is the range into the source sequence.
	Source Range `json:"source"`
	// Target is the range into the target sequence.
	Target Range `json:"target"`
}
