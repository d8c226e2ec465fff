package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const equipmentTable = "equipment"

var equipmentSelectColumns = []string{
	"e.id", "e.name", "e.serial_number", "e.category", "e.maintenance_team_id", "e.default_technician_id",
	"e.location", "e.model", "e.manufacturer", "e.description", "e.status", "e.created_at",
	"mt.name AS team_name", "tech.full_name AS technician_name",
}

type EquipmentRepositoryInterface interface {
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	GetEquipments(ctx context.Context, filter types.EquipmentFilter) ([]entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error
	SerialExists(ctx context.Context, serial string, excludeID uint64) (bool, error)
	GetCategories(ctx context.Context) ([]string, error)
	CountOpenRequests(ctx context.Context, equipmentID uint64) (int64, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func equipmentBaseQuery() sq.SelectBuilder {
	return sq.Select(equipmentSelectColumns...).
		From(equipmentTable + " e").
		LeftJoin("maintenance_teams mt ON e.maintenance_team_id = mt.id").
		LeftJoin("users tech ON e.default_technician_id = tech.id").
		PlaceholderFormat(sq.Dollar)
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Category, &e.MaintenanceTeamID, &e.DefaultTechnicianID,
		&e.Location, &e.Model, &e.Manufacturer, &e.Description, &e.Status, &e.CreatedAt,
		&e.TeamName, &e.TechnicianName,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) findEquipment(ctx context.Context, q querier, id uint64, lock bool) (*entities.Equipment, error) {
	builder := equipmentBaseQuery().Where(sq.Eq{"e.id": id})
	if lock {
		// Снимок категории/команды не должен поменяться до конца транзакции создания заявки.
		builder = builder.Suffix("FOR SHARE OF e")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("equipment ToSql: %w", err)
	}

	equipment, err := scanEquipment(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		return nil, wrapDBError("поиск оборудования", err)
	}
	return equipment, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return r.findEquipment(ctx, r.storage, id, false)
}

func (r *EquipmentRepository) FindEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.findEquipment(ctx, tx, id, true)
}

// SetStatusInTx - единственная запись в оборудование со стороны заявок (списание).
func (r *EquipmentRepository) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	tag, err := tx.Exec(ctx, `UPDATE equipment SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return wrapDBError("смена статуса оборудования", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.EquipmentFilter) ([]entities.Equipment, error) {
	builder := equipmentBaseQuery()
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"e.status": filter.Status})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"e.category": filter.Category})
	}
	if filter.TeamID != 0 {
		builder = builder.Where(sq.Eq{"e.maintenance_team_id": filter.TeamID})
	}
	builder = builder.OrderBy("e.created_at DESC", "e.id DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("equipment list ToSql: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("список оборудования", err)
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, wrapDBError("сканирование оборудования", err)
		}
		list = append(list, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("список оборудования", err)
	}
	return list, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	status := equipment.Status
	if status == "" {
		status = constants.EquipmentStatusActive
	}

	query := `
		INSERT INTO equipment (
			name, serial_number, category, maintenance_team_id, default_technician_id,
			location, model, manufacturer, description, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.storage.QueryRow(ctx, query,
		equipment.Name, equipment.SerialNumber, equipment.Category, equipment.MaintenanceTeamID,
		equipment.DefaultTechnicianID, equipment.Location, equipment.Model, equipment.Manufacturer,
		equipment.Description, status,
	).Scan(&equipment.ID, &equipment.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.NewInvalidInputError("оборудование с серийным номером '%s' уже существует", equipment.SerialNumber)
		}
		return 0, wrapDBError("создание оборудования", err)
	}
	equipment.Status = status
	return equipment.ID, nil
}

// UpdateEquipment перезаписывает карточку целиком. Заявки хранят свой снимок категории и команды
// и этим запросом не затрагиваются.
func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $1, serial_number = $2, category = $3, maintenance_team_id = $4, default_technician_id = $5,
			location = $6, model = $7, manufacturer = $8, description = $9, status = $10
		WHERE id = $11`

	tag, err := r.storage.Exec(ctx, query,
		equipment.Name, equipment.SerialNumber, equipment.Category, equipment.MaintenanceTeamID,
		equipment.DefaultTechnicianID, equipment.Location, equipment.Model, equipment.Manufacturer,
		equipment.Description, equipment.Status, equipment.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewInvalidInputError("оборудование с серийным номером '%s' уже существует", equipment.SerialNumber)
		}
		return wrapDBError("обновление оборудования", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

// SerialExists ищет серийный номер среди остальных карточек. excludeID = 0 - проверка для новой карточки.
func (r *EquipmentRepository) SerialExists(ctx context.Context, serial string, excludeID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM equipment WHERE serial_number = $1 AND id <> $2)`, serial, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBError("проверка серийного номера", err)
	}
	return exists, nil
}

func (r *EquipmentRepository) GetCategories(ctx context.Context) ([]string, error) {
	rows, err := r.storage.Query(ctx, `SELECT DISTINCT category FROM equipment ORDER BY category`)
	if err != nil {
		return nil, wrapDBError("список категорий", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, wrapDBError("сканирование категории", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountOpenRequests - заявки по оборудованию, еще не дошедшие до терминального статуса.
func (r *EquipmentRepository) CountOpenRequests(ctx context.Context, equipmentID uint64) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("maintenance_requests").
		Where(sq.Eq{"equipment_id": equipmentID}).
		Where(sq.NotEq{"status": constants.TerminalStatuses}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("open requests ToSql: %w", err)
	}

	var count int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrapDBError("подсчет открытых заявок", err)
	}
	return count, nil
}
