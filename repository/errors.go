package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/johnnycuong/mps-recruitment/errs"
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

// translate maps driver errors onto the errs taxonomy. entity and id name the
// row being read or written for not-found messages.
func translate(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || hasCode(err, invalidTextRepresentation) {
		// An id that is not a uuid cannot name any row.
		return errs.NotFound(entity, id)
	}
	if isUniqueViolation(err) {
		return errs.Wrap(errs.CodeDuplicate, entity+" already exists", err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || hasCode(err, foreignKeyViolation) {
		return errs.Wrap(errs.CodeNotFound, entity+" references a record that does not exist", err)
	}
	return errs.Internal("failed to access "+entity, err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || hasCode(err, uniqueViolation)
}
