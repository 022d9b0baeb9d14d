package backend

import (
	"time"

	"github.com/geocoder89/formhub/internal/security"
)

type settings struct {
	hasher *security.Hasher
	now    func() time.Time
}

type Option func(*settings)

// WithPasswordHashing stores a bcrypt hash instead of the submitted password.
func WithPasswordHashing(h security.Hasher) Option {
	return func(s *settings) { s.hasher = &h }
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
