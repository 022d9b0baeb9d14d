package backend

import (
	"context"
	"fmt"

	"github.com/geocoder89/formhub/internal/directory"
	"github.com/geocoder89/formhub/internal/domain/credential"
	"github.com/geocoder89/formhub/internal/domain/document"
)

// Registrar creates identities in an external directory and returns the new uid.
type Registrar interface {
	Register(ctx context.Context, email, password string) (string, error)
}

// DirectoryWriter registers the identity first and then writes a profile
// document keyed by the returned uid. A failed registration stops before the
// document write. The two steps are not atomic: if the profile write fails
// the identity stays registered and the save is reported as failed.
type DirectoryWriter struct {
	dir        Registrar
	store      DocumentStore
	collection string
	settings
}

func NewDirectoryWriter(dir Registrar, store DocumentStore, collection string, opts ...Option) *DirectoryWriter {
	return &DirectoryWriter{
		dir:        dir,
		store:      store,
		collection: collection,
		settings:   newSettings(opts),
	}
}

func (w *DirectoryWriter) Save(ctx context.Context, c credential.Credential) (Receipt, error) {
	uid, err := w.dir.Register(ctx, c.Email(), c.Password())

	if err != nil {
		return Receipt{}, AsError(err, "directory/unavailable")
	}

	// the profile carries the email exactly as the directory stored it
	profile := document.Profile(uid, directory.NormalizeEmail(c.Email()), w.now())

	if err := w.store.Set(ctx, w.collection, uid, profile); err != nil {
		return Receipt{}, &Error{
			Code:    "docstore/write_failed",
			Message: fmt.Sprintf("identity %s registered but profile was not written: %v", uid, err),
			Err:     err,
		}
	}

	return Receipt{ID: uid, Message: "User registered"}, nil
}
