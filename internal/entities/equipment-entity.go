package entities

import (
	"maintenance-system/pkg/types"
)

type Equipment struct {
	ID                  uint64  `db:"id"`
	Name                string  `db:"name"`
	SerialNumber        string  `db:"serial_number"`
	Category            string  `db:"category"`
	MaintenanceTeamID   uint64  `db:"maintenance_team_id"`
	DefaultTechnicianID *uint64 `db:"default_technician_id"`
	Location            *string `db:"location"`
	Model               *string `db:"model"`
	Manufacturer        *string `db:"manufacturer"`
	Description         *string `db:"description"`
	Status              string  `db:"status"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице)
	TeamName       *string `db:"-"`
	TechnicianName *string `db:"-"`
}
