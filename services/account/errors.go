package account

import "fmt"

// ErrorKind is the stable, caller-visible error code of the callable operation.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindInternal        ErrorKind = "internal"
)

// CallableError is returned to the caller of a callable operation.
// Cause stays server-side and is only logged.
type CallableError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *CallableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CallableError) Unwrap() error { return e.Cause }

var errUnauthenticated = &CallableError{
	Kind:    KindUnauthenticated,
	Message: "You must be logged in to delete an account.",
}

func internalError(cause error) *CallableError {
	return &CallableError{
		Kind:    KindInternal,
		Message: "An error occurred while deleting the account.",
		Cause:   cause,
	}
}
