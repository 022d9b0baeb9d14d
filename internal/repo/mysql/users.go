package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UsersRepo is the MySQL flavour of the users(name) table writer.
type UsersRepo struct {
	db execer
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) InsertName(ctx context.Context, name string) (string, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (name) VALUES (?)`, name)

	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()

	if err != nil {
		return "", fmt.Errorf("insert user: last id: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}
