package weather

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies a failed archive fetch.
type FetchErrorKind string

const (
	ServerError  FetchErrorKind = "server_error"
	NoResponse   FetchErrorKind = "no_response"
	UnknownError FetchErrorKind = "unknown_error"
)

// FetchError is the only error type returned by archive fetches.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func NewServerError(statusCode int) *FetchError {
	return &FetchError{Kind: ServerError, StatusCode: statusCode}
}

func NewNoResponseError(err error) *FetchError {
	return &FetchError{Kind: NoResponse, Err: err}
}

func NewUnknownError(err error) *FetchError {
	return &FetchError{Kind: UnknownError, Err: err}
}

// Error returns the user-facing message for the error kind.
func (e *FetchError) Error() string {
	switch e.Kind {
	case ServerError:
		return fmt.Sprintf("Weather data could not be retrieved. Server responded with status: %d", e.StatusCode)
	case NoResponse:
		return "Weather data could not be retrieved. No response from server. Try again later!"
	default:
		return "Weather data could not be retrieved. Something went wrong!"
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError reports whether err is a *FetchError and returns it.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
