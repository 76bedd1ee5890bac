package logsheet

import (
	"errors"
	"fmt"
)

// ErrNoPairs indicates the input directory holds no complete capture pair.
var ErrNoPairs = errors.New("no source/target log pairs found")

// ErrVerificationFailed indicates log lines are missing from the workbook.
var ErrVerificationFailed = errors.New("verification failed")

// Stages reported by PairError.
const (
	StageRead  = "read"
	StageBuild = "build"
)

// PairError represents an error while processing one capture pair.
type PairError struct {
	ServerID string
	Stage    string // "read", "build"
	Err      error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("pair %q (%s): %v", e.ServerID, e.Stage, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

// NewPairError creates a new PairError.
func NewPairError(serverID, stage string, err error) *PairError {
	return &PairError{
		ServerID: serverID,
		Stage:    stage,
		Err:      err,
	}
}
