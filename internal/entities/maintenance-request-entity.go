package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

// MaintenanceRequest - строка таблицы maintenance_requests.
// EquipmentCategory и MaintenanceTeamID - снимок оборудования на момент создания.
type MaintenanceRequest struct {
	ID                uint64     `db:"id"`
	RequestNumber     string     `db:"request_number"`
	Subject           string     `db:"subject"`
	Description       *string    `db:"description"`
	EquipmentID       uint64     `db:"equipment_id"`
	EquipmentCategory string     `db:"equipment_category"`
	MaintenanceTeamID uint64     `db:"maintenance_team_id"`
	RequestType       string     `db:"request_type"`
	Priority          string     `db:"priority"`
	Status            string     `db:"status"`
	ScheduledDate     *time.Time `db:"scheduled_date"`
	CompletedDate     *time.Time `db:"completed_date"`
	DurationHours     *float64   `db:"duration_hours"`
	RequestedBy       uint64     `db:"requested_by"`
	AssignedTo        *uint64    `db:"assigned_to"`

	types.BaseEntity
}

// MaintenanceRequestView - заявка, обогащенная данными связанных таблиц.
type MaintenanceRequestView struct {
	MaintenanceRequest

	EquipmentName    string  `db:"equipment_name"`
	SerialNumber     *string `db:"serial_number"`
	TeamName         string  `db:"team_name"`
	RequesterName    *string `db:"requester_name"`
	TechnicianName   *string `db:"technician_name"`
	TechnicianAvatar *string `db:"technician_avatar"`
	IsOverdue        bool    `db:"is_overdue"`
}
