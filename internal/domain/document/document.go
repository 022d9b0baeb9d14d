package document

import (
	"time"

	"github.com/geocoder89/formhub/internal/domain/credential"
)

// Document is a flat, store-agnostic document body.
type Document map[string]any

// FromRecord is the document written for a plain submission.
func FromRecord(r credential.Record) Document {
	return Document{
		"email":     r.Email,
		"password":  r.Password,
		"createdAt": r.CreatedAt,
	}
}

// Profile is the document linked to a directory identity.
func Profile(uid, email string, createdAt time.Time) Document {
	return Document{
		"uid":       uid,
		"email":     email,
		"createdAt": createdAt.UTC(),
	}
}
