package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name                string      `json:"name" validate:"required,max=200"`
	SerialNumber        string      `json:"serial_number" validate:"required,max=100"`
	Category            string      `json:"category" validate:"required,max=100"`
	MaintenanceTeamID   uint64      `json:"maintenance_team_id" validate:"required,gt=0"`
	DefaultTechnicianID null.Uint64 `json:"default_technician_id" validate:"omitempty,gt=0"`
	Location            null.String `json:"location" validate:"omitempty,max=200"`
	Model               null.String `json:"model" validate:"omitempty,max=100"`
	Manufacturer        null.String `json:"manufacturer" validate:"omitempty,max=100"`
	Description         null.String `json:"description"`
}

// UpdateEquipmentDTO - тело PUT /equipment/:id. Незаполненные поля остаются без изменений,
// пустая строка очищает необязательное текстовое поле.
type UpdateEquipmentDTO struct {
	Name                null.String `json:"name" validate:"omitempty,max=200"`
	SerialNumber        null.String `json:"serial_number" validate:"omitempty,max=100"`
	Category            null.String `json:"category" validate:"omitempty,max=100"`
	MaintenanceTeamID   null.Uint64 `json:"maintenance_team_id" validate:"omitempty,gt=0"`
	DefaultTechnicianID null.Uint64 `json:"default_technician_id" validate:"omitempty,gt=0"`
	Location            null.String `json:"location" validate:"omitempty,max=200"`
	Model               null.String `json:"model" validate:"omitempty,max=100"`
	Manufacturer        null.String `json:"manufacturer" validate:"omitempty,max=100"`
	Description         null.String `json:"description"`
	Status              null.String `json:"status" validate:"omitempty,equipment_status"`
}

type EquipmentDTO struct {
	ID                uint64        `json:"id"`
	Name              string        `json:"name"`
	SerialNumber      string        `json:"serial_number"`
	Category          string        `json:"category"`
	Team              ShortTeamDTO  `json:"team"`
	DefaultTechnician *ShortUserDTO `json:"default_technician"`
	Location          *string       `json:"location"`
	Model             *string       `json:"model"`
	Manufacturer      *string       `json:"manufacturer"`
	Description       *string       `json:"description"`
	Status            string        `json:"status"`
	OpenRequestsCount *int64        `json:"open_requests_count,omitempty"`
	CreatedAt         string        `json:"created_at"`
}
