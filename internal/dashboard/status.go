package dashboard

import (
	"sync"
	"time"
)

// Status holds the transient user-visible message: mutation feedback and
// fetch failures. Messages expire on their own; readers past the deadline
// see nothing.
type Status struct {
	mu      sync.Mutex
	message string
	isError bool
	expires time.Time
	now     func() time.Time
}

// NewStatus creates an empty status board.
func NewStatus() *Status {
	return &Status{now: time.Now}
}

// SetError publishes an error message visible for ttl.
func (s *Status) SetError(message string, ttl time.Duration) {
	s.set(message, true, ttl)
}

// SetInfo publishes an informational message visible for ttl.
func (s *Status) SetInfo(message string, ttl time.Duration) {
	s.set(message, false, ttl)
}

func (s *Status) set(message string, isError bool, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.isError = isError
	s.expires = s.now().Add(ttl)
}

// Current returns the live message, if any.
func (s *Status) Current() (message string, isError bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message == "" || !s.now().Before(s.expires) {
		return "", false, false
	}
	return s.message, s.isError, true
}
