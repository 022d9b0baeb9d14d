package credential

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const MinPasswordLength = 6

var (
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrShortPassword = errors.New("password must be at least 6 characters")
)

// Credential is a validated email/password pair. The zero value is not valid;
// build one with New.
type Credential struct {
	email    string
	password string
}

// New trims the email and enforces the credential rules.
func New(email, password string) (Credential, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return Credential{}, ErrEmptyEmail
	}

	if password == "" {
		return Credential{}, ErrEmptyPassword
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Credential{}, ErrShortPassword
	}

	return Credential{email: email, password: password}, nil
}

func (c Credential) Email() string    { return c.email }
func (c Credential) Password() string { return c.password }

// Record is what a backend persists for one submission.
type Record struct {
	ID        string    `json:"id,omitempty" bson:"-"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"password" bson:"password"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func NewRecord(c Credential, now time.Time) Record {
	return Record{
		Email:     c.email,
		Password:  c.password,
		CreatedAt: now.UTC(),
	}
}
