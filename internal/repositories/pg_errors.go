package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "maintenance-system/pkg/errors"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// wrapDBError: нарушения ссылок и ограничений - ошибка ввода, остальное - сбой хранилища.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return apperrors.NewInvalidInputError("связанная запись не существует (%s)", pgErr.ConstraintName)
		case pgCheckViolation:
			return apperrors.NewInvalidInputError("недопустимое значение (%s)", pgErr.ConstraintName)
		}
	}
	return apperrors.NewPersistenceError(op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
