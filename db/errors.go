package db

import "fmt"

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrInvalidData   = fmt.Errorf("invalid data provided")
	ErrAlreadyExists = fmt.Errorf("already exists")
)

// TransitionError is returned when a request status change is not permitted
// from the request's current status. It carries both statuses so the API
// layer can surface them to the caller.
type TransitionError struct {
	Current   RequestStatus
	Attempted RequestStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition request from %s to %s", e.Current, e.Attempted)
}
