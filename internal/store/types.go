package store

import "errors"

var (
	// ErrNotFound is returned by Get when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Add when the id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrIDChanged is returned by Modify when fn rewrites the record id.
	ErrIDChanged = errors.New("record id changed")
)

// Outcome tells the caller whether an update or removal touched a record.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeApplied
)

func (o Outcome) String() string {
	if o == OutcomeApplied {
		return "applied"
	}
	return "not_found"
}
