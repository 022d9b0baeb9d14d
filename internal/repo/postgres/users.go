package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UsersRepo writes into the fixed users(name) table.
type UsersRepo struct {
	db rowQuerier
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{db: pool}
}

// InsertName adds one row and returns its generated id.
func (r *UsersRepo) InsertName(ctx context.Context, name string) (string, error) {
	var id int64

	err := r.db.QueryRow(
		ctx,
		`INSERT INTO users (name)
         VALUES ($1)
         RETURNING id`,
		name,
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}
