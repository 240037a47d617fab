package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage-level errors. Services translate these into their own sentinels.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateExamCode = errors.New("exam with this code already exists")
	ErrAlreadyAttempted  = errors.New("student has already attempted this exam")
	ErrAlreadySubmitted  = errors.New("attempt already submitted")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// notFound maps pgx.ErrNoRows to ErrNotFound and passes everything else through.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
