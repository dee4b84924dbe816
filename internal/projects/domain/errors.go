package domain

import "errors"

var (
	// ErrNotFound: the target project id does not exist.
	ErrNotFound = errors.New("project not found")

	// ErrInvalidType: the requested type is not in the configured table.
	ErrInvalidType = errors.New("unsupported project type")

	// ErrSequenceExhausted: the (year, type) scope has used all 9999
	// sequence numbers. Requires a configuration change to recover.
	ErrSequenceExhausted = errors.New("project sequence exhausted (max 9999)")

	// ErrCorruptSequence: the stored max number for a prefix does not
	// end in 4 digits. A hard integrity error rather than a silent
	// restart from 1.
	ErrCorruptSequence = errors.New("stored project number is malformed")

	// ErrDuplicateNumber: the store rejected an insert on the
	// project_no uniqueness constraint. Retryable exactly once by the
	// create flow.
	ErrDuplicateNumber = errors.New("project number already exists")

	// ErrProjectInvalid: the project is invalidated and can no longer
	// be edited.
	ErrProjectInvalid = errors.New("project is invalidated and cannot be edited")

	// ErrHasLaterSiblings: hard delete rejected because later numbers
	// of the same type exist; the caller should offer invalidation.
	ErrHasLaterSiblings = errors.New("project has later sibling numbers")
)
