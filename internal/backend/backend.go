// Package backend holds the persistence targets a submitted credential can
// be saved to. One Backend is chosen at startup and shared by all requests.
package backend

import (
	"context"
	"errors"

	"github.com/geocoder89/formhub/internal/domain/credential"
	"github.com/geocoder89/formhub/internal/domain/document"
)

// Backend persists one credential per call. Implementations must be safe for
// concurrent use.
type Backend interface {
	Save(ctx context.Context, c credential.Credential) (Receipt, error)
}

// Receipt confirms a save. ID is whatever the store assigned, possibly empty.
type Receipt struct {
	ID      string
	Message string
}

// Error is a failed save. Code is stable and machine readable
// (e.g. "auth/email-already-exists", "db/unique_violation"); Message is the
// store's own explanation and is echoed to the client.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error     { return e.Err }
func (e *Error) ErrorCode() string { return e.Code }

// AsError converts any save failure into an *Error, keeping codes that the
// underlying store already provides.
func AsError(err error, fallbackCode string) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}

	code := fallbackCode

	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) && coded.ErrorCode() != "" {
		code = coded.ErrorCode()
	}

	return &Error{Code: code, Message: errMessage(err), Err: err}
}

func errMessage(err error) string {
	var dm interface{ ErrorMessage() string }
	if errors.As(err, &dm) {
		return dm.ErrorMessage()
	}
	return err.Error()
}

// DocumentStore is the document database a writer appends to.
type DocumentStore interface {
	Add(ctx context.Context, collection string, doc document.Document) (string, error)
	Set(ctx context.Context, collection, id string, doc document.Document) error
}
