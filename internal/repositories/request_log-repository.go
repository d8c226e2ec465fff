package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
)

// RequestLogItem - запись журнала с именем автора.
type RequestLogItem struct {
	entities.RequestLog
	ActorName *string `db:"actor_name"`
}

type RequestLogRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.RequestLog) error
	FindByRequestID(ctx context.Context, requestID uint64) ([]RequestLogItem, error)
}

type RequestLogRepository struct {
	storage *pgxpool.Pool
}

func NewRequestLogRepository(storage *pgxpool.Pool) RequestLogRepositoryInterface {
	return &RequestLogRepository{storage: storage}
}

// CreateInTx - журнал только дописывается, UPDATE/DELETE для него нет.
func (r *RequestLogRepository) CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.RequestLog) error {
	query := `
		INSERT INTO maintenance_request_logs (request_id, user_id, action, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := tx.QueryRow(ctx, query,
		entry.RequestID, entry.UserID, entry.Action, entry.OldValue, entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
	return wrapDBError("запись журнала", err)
}

func (r *RequestLogRepository) FindByRequestID(ctx context.Context, requestID uint64) ([]RequestLogItem, error) {
	query := `
		SELECT
			l.id, l.request_id, l.user_id, l.action, l.old_value, l.new_value, l.created_at,
			u.full_name AS actor_name
		FROM maintenance_request_logs l
		LEFT JOIN users u ON l.user_id = u.id
		WHERE l.request_id = $1
		ORDER BY l.created_at ASC, l.id ASC`

	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, wrapDBError("журнал заявки", err)
	}
	defer rows.Close()

	history := make([]RequestLogItem, 0)
	for rows.Next() {
		var h RequestLogItem
		if err := rows.Scan(
			&h.ID, &h.RequestID, &h.UserID, &h.Action, &h.OldValue, &h.NewValue, &h.CreatedAt,
			&h.ActorName,
		); err != nil {
			return nil, wrapDBError("сканирование журнала", err)
		}
		history = append(history, h)
	}
	return history, wrapDBError("журнал заявки", rows.Err())
}
