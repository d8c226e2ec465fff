package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestNumberRepositoryInterface interface {
	NextSequenceInTx(ctx context.Context, tx pgx.Tx, year int) (int, error)
}

type RequestNumberRepository struct {
	storage *pgxpool.Pool
}

func NewRequestNumberRepository(storage *pgxpool.Pool) RequestNumberRepositoryInterface {
	return &RequestNumberRepository{storage: storage}
}

// NextSequenceInTx атомарно увеличивает счетчик года. Строка остается заблокированной
// до коммита, параллельное создание в том же году ждет и получает следующий номер.
func (r *RequestNumberRepository) NextSequenceInTx(ctx context.Context, tx pgx.Tx, year int) (int, error) {
	query := `
		INSERT INTO request_number_counters (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = request_number_counters.last_value + 1
		RETURNING last_value`

	var seq int
	if err := tx.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, wrapDBError("номер заявки", err)
	}
	return seq, nil
}
