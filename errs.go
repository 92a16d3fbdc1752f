package timeline

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors surfaced to callers. These are returned
// wrapped with context via %w, so callers can branch on them with
// errors.Is, and at the
// edit boundary they cause the active transaction to roll back.
var (
	ErrInvalidRegion      = errors.New("invalid region")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrUnknownID          = errors.New("unknown id")
	ErrTransactionConflict = errors.New("transaction already in progress")
	ErrInvalidCut         = errors.New("invalid cut")
)

// ConsistencyError represents an internal invariant violation: the
// kind of bug that must never reach a caller in a well-formed build.
// It carries a stack trace (via github.com/pkg/errors) so a crash
// report has enough context to diagnose.
type ConsistencyError struct {
	Kind string
	err  error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.err
}

const (
	KindPlaylistOverlap      = "playlist-overlap"
	KindCutBoxesGap          = "cut-boxes-gap"
	KindBackendInconsistency = "backend-inconsistency"
)

func newConsistencyError(kind, format string, args ...interface{}) error {
	return &ConsistencyError{
		Kind: kind,
		err:  pkgerrors.WithStack(fmt.Errorf(format, args...)),
	}
}
