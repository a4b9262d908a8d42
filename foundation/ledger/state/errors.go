package state

import "errors"

// InternalError marks a fault that should never occur under correct
// operation: chain linkage violations, hashing failures, balance underflow
// or overflow. Callers should treat it as a reason to halt, not retry, and
// it must never be confused with a policy rejection.
type InternalError struct {
	Err error
}

// Error implements the error interface.
func (ie *InternalError) Error() string {
	return "internal fault: " + ie.Err.Error()
}

// Unwrap exposes the underlying fault.
func (ie *InternalError) Unwrap() error {
	return ie.Err
}

// IsInternal checks if an error of type InternalError exists in the chain.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
