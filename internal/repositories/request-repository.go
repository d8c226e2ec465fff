package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const requestTable = "maintenance_requests"

var requestViewColumns = []string{
	"mr.id", "mr.request_number", "mr.subject", "mr.description", "mr.equipment_id", "mr.equipment_category",
	"mr.maintenance_team_id", "mr.request_type", "mr.priority", "mr.status", "mr.scheduled_date",
	"mr.completed_date", "mr.duration_hours", "mr.requested_by", "mr.assigned_to", "mr.created_at",
	"e.name AS equipment_name", "e.serial_number",
	"mt.name AS team_name",
	"req.full_name AS requester_name",
	"tech.full_name AS technician_name", "tech.avatar AS technician_avatar",
}

type RequestRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, completedDate *time.Time, durationHours *float64) error
	AssignInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64) error
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequestView, error)
	GetRequests(ctx context.Context, filter types.RequestFilter) ([]entities.MaintenanceRequestView, error)
	GetStats(ctx context.Context, filter types.StatsFilter) (*types.RequestStats, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

func (r *RequestRepository) CreateInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error) {
	query := `
		INSERT INTO maintenance_requests (
			request_number, subject, description, equipment_id, equipment_category, maintenance_team_id,
			request_type, priority, status, scheduled_date, completed_date, duration_hours,
			requested_by, assigned_to, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL, NULL, $11, $12, COALESCE($13::timestamptz, NOW()))
		RETURNING id, created_at`

	// created_at передает сервис: из того же момента берется год номера заявки.
	err := tx.QueryRow(ctx, query,
		request.RequestNumber, request.Subject, request.Description, request.EquipmentID,
		request.EquipmentCategory, request.MaintenanceTeamID, request.RequestType, request.Priority,
		request.Status, request.ScheduledDate, request.RequestedBy, request.AssignedTo, request.CreatedAt,
	).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return 0, wrapDBError("создание заявки", err)
	}
	return request.ID, nil
}

// FindForUpdateInTx блокирует строку заявки до конца транзакции.
func (r *RequestRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query := `
		SELECT id, request_number, subject, description, equipment_id, equipment_category, maintenance_team_id,
			request_type, priority, status, scheduled_date, completed_date, duration_hours,
			requested_by, assigned_to, created_at
		FROM maintenance_requests
		WHERE id = $1
		FOR UPDATE`

	var m entities.MaintenanceRequest
	err := tx.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.RequestNumber, &m.Subject, &m.Description, &m.EquipmentID, &m.EquipmentCategory,
		&m.MaintenanceTeamID, &m.RequestType, &m.Priority, &m.Status, &m.ScheduledDate,
		&m.CompletedDate, &m.DurationHours, &m.RequestedBy, &m.AssignedTo, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, wrapDBError("чтение заявки", err)
	}
	return &m, nil
}

func (r *RequestRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, completedDate *time.Time, durationHours *float64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE maintenance_requests SET status = $1, completed_date = $2, duration_hours = $3 WHERE id = $4`,
		status, completedDate, durationHours, id,
	)
	if err != nil {
		return wrapDBError("смена статуса заявки", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) AssignInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64) error {
	tag, err := tx.Exec(ctx, `UPDATE maintenance_requests SET assigned_to = $1 WHERE id = $2`, technicianID, id)
	if err != nil {
		return wrapDBError("назначение техника", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequestView, error) {
	query, args, err := requestViewQuery().Where(sq.Eq{"mr.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("request ToSql: %w", err)
	}

	view, err := scanRequestView(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, wrapDBError("чтение заявки", err)
	}
	return view, nil
}

func (r *RequestRepository) GetRequests(ctx context.Context, filter types.RequestFilter) ([]entities.MaintenanceRequestView, error) {
	query, args, err := buildRequestListQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("request list ToSql: %w", err)
	}
	r.logger.Debug("GetRequests", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("список заявок", err)
	}
	defer rows.Close()

	list := make([]entities.MaintenanceRequestView, 0)
	for rows.Next() {
		view, err := scanRequestView(rows)
		if err != nil {
			return nil, wrapDBError("сканирование заявки", err)
		}
		list = append(list, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("список заявок", err)
	}
	return list, nil
}

func (r *RequestRepository) GetStats(ctx context.Context, filter types.StatsFilter) (*types.RequestStats, error) {
	query, args, err := buildStatsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("stats ToSql: %w", err)
	}

	stats := &types.RequestStats{}
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&stats.Total, &stats.NewCount, &stats.InProgressCount, &stats.RepairedCount, &stats.ScrapCount,
		&stats.CorrectiveCount, &stats.PreventiveCount, &stats.OverdueCount,
	)
	if err != nil {
		return nil, wrapDBError("статистика заявок", err)
	}
	return stats, nil
}

func requestViewQuery() sq.SelectBuilder {
	return sq.Select(requestViewColumns...).
		Column(sq.Expr("(COALESCE(mr.scheduled_date < CURRENT_DATE, FALSE) AND mr.status <> ?) AS is_overdue", constants.RequestStatusRepaired)).
		From(requestTable + " mr").
		Join("equipment e ON mr.equipment_id = e.id").
		Join("maintenance_teams mt ON mr.maintenance_team_id = mt.id").
		LeftJoin("users req ON mr.requested_by = req.id").
		LeftJoin("users tech ON mr.assigned_to = tech.id").
		PlaceholderFormat(sq.Dollar)
}

// buildRequestListQuery: фильтры через AND, сортировка - приоритет, плановая дата, новизна.
func buildRequestListQuery(filter types.RequestFilter) sq.SelectBuilder {
	builder := requestViewQuery()

	if filter.TeamID != 0 {
		builder = builder.Where(sq.Eq{"mr.maintenance_team_id": filter.TeamID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"mr.status": filter.Status})
	}
	if filter.RequestType != "" {
		builder = builder.Where(sq.Eq{"mr.request_type": filter.RequestType})
	}
	if filter.EquipmentID != 0 {
		builder = builder.Where(sq.Eq{"mr.equipment_id": filter.EquipmentID})
	}
	if filter.AssignedTo != 0 {
		builder = builder.Where(sq.Eq{"mr.assigned_to": filter.AssignedTo})
	}
	if filter.CalendarView {
		builder = builder.
			Where(sq.Eq{"mr.request_type": constants.RequestTypePreventive}).
			Where(sq.NotEq{"mr.scheduled_date": nil})
	}

	return builder.OrderBy(
		priorityOrderExpr()+" DESC",
		"mr.scheduled_date ASC NULLS LAST",
		"mr.created_at DESC",
		"mr.id DESC",
	)
}

// priorityOrderExpr: critical > high > medium > low.
func priorityOrderExpr() string {
	var b strings.Builder
	b.WriteString("CASE mr.priority")
	for _, p := range constants.Priorities {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", p, constants.PriorityRank(p))
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}

func buildStatsQuery(filter types.StatsFilter) sq.SelectBuilder {
	builder := sq.Select("COUNT(*)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.RequestStatusNew)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.RequestStatusInProgress)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.RequestStatusRepaired)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.RequestStatusScrap)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE request_type = ?)", constants.RequestTypeCorrective)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE request_type = ?)", constants.RequestTypePreventive)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE scheduled_date < CURRENT_DATE AND status NOT IN (?, ?))",
			constants.RequestStatusRepaired, constants.RequestStatusScrap)).
		From(requestTable).
		PlaceholderFormat(sq.Dollar)

	if filter.TeamID != 0 {
		builder = builder.Where(sq.Eq{"maintenance_team_id": filter.TeamID})
	}
	if filter.EquipmentID != 0 {
		builder = builder.Where(sq.Eq{"equipment_id": filter.EquipmentID})
	}
	return builder
}

func scanRequestView(row pgx.Row) (*entities.MaintenanceRequestView, error) {
	var v entities.MaintenanceRequestView
	err := row.Scan(
		&v.ID, &v.RequestNumber, &v.Subject, &v.Description, &v.EquipmentID, &v.EquipmentCategory,
		&v.MaintenanceTeamID, &v.RequestType, &v.Priority, &v.Status, &v.ScheduledDate,
		&v.CompletedDate, &v.DurationHours, &v.RequestedBy, &v.AssignedTo, &v.CreatedAt,
		&v.EquipmentName, &v.SerialNumber,
		&v.TeamName,
		&v.RequesterName,
		&v.TechnicianName, &v.TechnicianAvatar,
		&v.IsOverdue,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
