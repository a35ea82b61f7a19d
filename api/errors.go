package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is matched by responses with status 401.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrForbidden is matched by responses with status 403.
	ErrForbidden = errors.New("api: forbidden")
	// ErrNotFound is matched by responses with status 404.
	ErrNotFound = errors.New("api: not found")
)

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case ErrForbidden:
		return e.Code == http.StatusForbidden
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}
