package types

import "fmt"

// RemoteError is an explicit rejection returned by a remote service.
// Error() is the service's message verbatim so callers can surface it
// without translation; Call only shows up in logs.
type RemoteError struct {
	Call    string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Result is the two-variant success/error envelope every remote call
// responds with. Unwrap is the single place the envelope is interpreted;
// code past this point sees a value or an error, never the envelope.
type Result[T any] struct {
	Ok  *T      `json:"Ok,omitempty"`
	Err *string `json:"Err,omitempty"`
}

func (r Result[T]) Unwrap(call string) (T, error) {
	var zero T
	if r.Err != nil {
		return zero, &RemoteError{Call: call, Message: *r.Err}
	}
	if r.Ok == nil {
		return zero, fmt.Errorf("call %s: response carries neither Ok nor Err", call)
	}
	return *r.Ok, nil
}
