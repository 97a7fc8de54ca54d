package client

import (
	"errors"
	"fmt"
)

// ServiceError is the normalized form of every transport failure or
// non-success response from the session service. Message is taken from the
// service's structured error body when present, else a generic fallback.
type ServiceError struct {
	Message    string
	StatusCode int
	Err        error
}

type serviceErrorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
