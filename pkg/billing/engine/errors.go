package engine

import "fmt"

// InvalidStateError signals a transition that is not allowed from the
// invoice's or payment's current state. Always surfaced to the caller.
type InvalidStateError struct {
	Op      string
	Current string
	Reason  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed from state %q: %s", e.Op, e.Current, e.Reason)
}

// ValidationError rejects malformed input before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
