package relay

import (
	"fmt"
	"net/http"

	"pigeon/internal/domain"
)

// StatusError is returned for any non-2xx relay response.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("relay %s %s: %d %s: %s", e.Method, e.URL, e.Code, http.StatusText(e.Code), e.Message)
	}
	return fmt.Sprintf("relay %s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
}

// Is maps well-known status codes onto the domain sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Code == http.StatusNotFound
	case domain.ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Code == http.StatusForbidden
	case domain.ErrConflict:
		return e.Code == http.StatusConflict
	}
	return false
}
