package search

import (
	"errors"
	"fmt"
)

// User-facing status messages.
const (
	MessageNoMovies = "No movies."
	MessageTryAgain = "Error, Please try again. 404"
)

// ErrEmptyResult means the request succeeded but carried no usable records.
var ErrEmptyResult = errors.New("no usable records in response")

// HTTPStatusError reports a non-2xx response from the search endpoint.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("search failed with status code: %d", e.StatusCode)
}

// FailureKind classifies a failed request cycle.
type FailureKind int

const (
	NoFailure FailureKind = iota
	EmptyResult
	TransportFailure
)

func (k FailureKind) String() string {
	switch k {
	case NoFailure:
		return "ok"
	case EmptyResult:
		return "empty_result"
	case TransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Message returns the status text shown for the kind.
func (k FailureKind) Message() string {
	switch k {
	case EmptyResult:
		return MessageNoMovies
	case TransportFailure:
		return MessageTryAgain
	default:
		return ""
	}
}

// Failure classifies err. Anything that is not an empty result is a
// transport failure.
func Failure(err error) FailureKind {
	switch {
	case err == nil:
		return NoFailure
	case errors.Is(err, ErrEmptyResult):
		return EmptyResult
	default:
		return TransportFailure
	}
}
