package persistent

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// invalidTextRepresentation is raised when an id is not a valid uuid. No
// row can have such an id.
const invalidTextRepresentation = "22P02"

func translate(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	case errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation:
		return ErrNotFound
	default:
		return err
	}
}
