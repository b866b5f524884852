package relay

import (
	"fmt"
	"net/http"
)

// Kind classifies a relay failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConfiguration
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a failure that maps onto one JSON error response.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func configurationError() *Error {
	return &Error{Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: "Server configuration error"}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}
