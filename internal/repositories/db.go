package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is satisfied by *pgxpool.Pool and by pgxmock pools in tests
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

const uniqueViolation = "23505"

// Unique constraint names created by the accounts migrations
const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

// translateUserError maps driver errors onto the repository sentinels
func translateUserError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case usersUsernameKey:
			return ErrDuplicateUsername
		case usersEmailKey:
			return ErrDuplicateEmail
		}
	}
	return err
}
