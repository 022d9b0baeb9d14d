package backend

import (
	"context"
	"fmt"

	"github.com/geocoder89/formhub/internal/domain/credential"
	"github.com/geocoder89/formhub/internal/domain/document"
)

// DocumentWriter appends one {email, password, createdAt} document per save.
type DocumentWriter struct {
	store      DocumentStore
	collection string
	settings
}

func NewDocumentWriter(store DocumentStore, collection string, opts ...Option) *DocumentWriter {
	return &DocumentWriter{
		store:      store,
		collection: collection,
		settings:   newSettings(opts),
	}
}

func (w *DocumentWriter) Save(ctx context.Context, c credential.Credential) (Receipt, error) {
	rec := credential.NewRecord(c, w.now())

	if w.hasher != nil {
		hash, err := w.hasher.Hash(rec.Password)
		if err != nil {
			return Receipt{}, &Error{Code: "internal/hash_failed", Message: "could not hash password", Err: err}
		}
		rec.Password = hash
	}

	id, err := w.store.Add(ctx, w.collection, document.FromRecord(rec))

	if err != nil {
		return Receipt{}, AsError(fmt.Errorf("write %s document: %w", w.collection, err), "docstore/write_failed")
	}

	return Receipt{ID: id, Message: "User data saved"}, nil
}
