package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/greenhub/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTimeout      = errors.New("request timed out")
	ErrDecode       = errors.New("unexpected response body")
	ErrBodyTooLarge = errors.New("response body too large")
)

// User-facing messages.
const (
	MsgUnreachable = "Server not reachable"
	MsgGeneric     = "Something went wrong"
	MsgLoginFirst  = "Please log in first"
)

// TransportError reports a request that never got a response.
type TransportError struct {
	Op      string
	URL     string
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrUnavailable || (e.Timeout && target == ErrTimeout)
}

// APIError reports a response with a non-success status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgGeneric
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// UserMessage maps an error from this package (or a validation error) to
// the text shown to the user.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, ErrUnavailable):
		return MsgUnreachable
	case errors.Is(err, common.ErrNotAuthenticated):
		return MsgLoginFirst
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInFlight):
		return err.Error()
	default:
		return MsgGeneric
	}
}
