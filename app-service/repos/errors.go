package repos

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrAlreadyAttached = errors.New("relation already exists")
	ErrEmailTaken      = errors.New("email already taken")
	ErrInvalid         = errors.New("invalid record")
)

// notFound maps sql.ErrNoRows onto ErrNotFound, naming what was looked up.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
