package factory

//go:generate go tool stringer -type=State -trimprefix=State

// State is the state of an association field value.
type State int

const (
	// StatePending holds a child builder that is inserted on resolution.
	StatePending State = iota
	// StateResolved holds an already materialized record.
	StateResolved
	// StateAbsent is an unset optional association; it resolves to NULL.
	StateAbsent
)
