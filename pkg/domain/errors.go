package domain

import "fmt"

// ValidationError reports a request that does not match any command shape
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: field '%s': %s", e.Field, e.Reason)
}

// InvalidIDError reports an id that is not a well-formed backend identifier
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid document id '%s': must be a 24 character hex string", e.ID)
}
