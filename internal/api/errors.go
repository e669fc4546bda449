package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrSessionExpired is returned for any 401 response after the client has
// cleared the token store and navigated to the login route. Feature code
// never renders it; the navigation already happened.
var ErrSessionExpired = errors.New("session expired: please login again")

// APIError is the normalized shape of every non-401 request failure.
// Status is 0 for transport-level errors (no response).
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Detail
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// IsCancelled reports whether err is a caller-initiated abort. Cancellation
// is invisible to features: never logged as an error, never shown.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeout reports whether err is a deadline expiry.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// ErrorDetail extracts the user-visible message from a request error,
// preferring the server's detail field.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}
