package domain

import "errors"

// Domain errors represent reconciliation failures.
// These are distinct from physical-plausibility failures, which are
// recorded as ValidationOutcome flags and never raised as errors.
var (
	// ErrGeometry indicates incommensurate or misaligned structures.
	// Fatal to the single merge attempt; existing document state is
	// never corrupted by it.
	ErrGeometry = errors.New("structures are not commensurate")

	// ErrCorrectionConflict indicates two correction strategies claimed
	// the same correction key. This is a configuration bug.
	ErrCorrectionConflict = errors.New("correction key claimed by multiple strategies")

	// ErrInconsistentCharge indicates an incremental update whose derived
	// charge state differs from the document's stored charge state.
	// The document is left unchanged.
	ErrInconsistentCharge = errors.New("charge state inconsistent with document")

	// ErrInvalidInput indicates malformed boundary data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a document lookup missed.
	ErrNotFound = errors.New("not found")
)
