package github

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/teranos/folio/errors"
)

// Class groups non-success responses by what the operator has to do about them.
type Class string

const (
	ClassUnauthorized Class = "unauthorized"
	ClassForbidden    Class = "forbidden"
	ClassRateLimited  Class = "rate-limited"
	ClassNotFound     Class = "not-found"
	ClassHTTP         Class = "http"
)

// FetchError is a non-2xx contents API response.
type FetchError struct {
	StatusCode int
	Class      Class
	// Message is the "message" field of GitHub's JSON error body, if any
	Message string
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Class)
	}
	return fmt.Sprintf("HTTP %d (%s): %s", e.StatusCode, e.Class, e.Message)
}

// Unwrap returns the transport sentinel matching the class.
func (e *FetchError) Unwrap() error {
	switch e.Class {
	case ClassUnauthorized:
		return errors.ErrUnauthorized
	case ClassForbidden:
		return errors.ErrForbidden
	case ClassRateLimited:
		return errors.ErrRateLimited
	case ClassNotFound:
		return errors.ErrNotFound
	default:
		return errors.ErrTransport
	}
}

// Classify maps a response status to a Class. header may be nil.
//
// GitHub answers an exhausted primary rate limit with 403 and
// X-RateLimit-Remaining: 0, and secondary limits with 403 or 429.
func Classify(status int, header http.Header, message string) Class {
	switch status {
	case http.StatusUnauthorized:
		return ClassUnauthorized
	case http.StatusForbidden:
		if header.Get("X-RateLimit-Remaining") == "0" ||
			strings.Contains(strings.ToLower(message), "rate limit") {
			return ClassRateLimited
		}
		return ClassForbidden
	case http.StatusTooManyRequests:
		return ClassRateLimited
	case http.StatusNotFound:
		return ClassNotFound
	default:
		return ClassHTTP
	}
}
