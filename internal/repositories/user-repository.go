package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Пользователи принадлежат внешней системе, здесь только проверка существования.
type UserRepositoryInterface interface {
	ExistsInTx(ctx context.Context, tx pgx.Tx, id uint64) (bool, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

func (r *UserRepository) ExistsInTx(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, wrapDBError("поиск пользователя", err)
	}
	return exists, nil
}
