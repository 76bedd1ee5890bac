package archive

import (
	"errors"
	"fmt"
)

// ErrPartNotFound indicates a part referenced by the document is absent.
var ErrPartNotFound = errors.New("part not found")

// ErrNoSheets indicates an attempt to encode a workbook without sheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// CorruptArchiveError reports a document that cannot be opened or is malformed.
type CorruptArchiveError struct {
	// Part is the archive part at fault, empty when the container itself is unreadable.
	Part string
	Err  error
}

func (e *CorruptArchiveError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("corrupt archive: %v", e.Err)
	}
	return fmt.Sprintf("corrupt archive part %q: %v", e.Part, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Err
}

// NewCorruptArchiveError creates a new CorruptArchiveError.
func NewCorruptArchiveError(part string, err error) *CorruptArchiveError {
	return &CorruptArchiveError{
		Part: part,
		Err:  err,
	}
}
