package backend

import (
	"context"

	"github.com/geocoder89/formhub/internal/db"
	"github.com/geocoder89/formhub/internal/domain/credential"
)

// NameInserter adds a row to the users(name) table.
type NameInserter interface {
	InsertName(ctx context.Context, name string) (string, error)
}

// RelationalInserter stores the submitted email as users.name.
type RelationalInserter struct {
	users NameInserter
}

func NewRelationalInserter(users NameInserter) *RelationalInserter {
	return &RelationalInserter{users: users}
}

func (r *RelationalInserter) Save(ctx context.Context, c credential.Credential) (Receipt, error) {
	id, err := r.users.InsertName(ctx, c.Email())

	if err != nil {
		return Receipt{}, &Error{Code: "db/" + db.Classify(err), Message: err.Error(), Err: err}
	}

	return Receipt{ID: id, Message: "Inserted row: " + c.Email()}, nil
}
