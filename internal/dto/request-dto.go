package dto

import "github.com/aarondl/null/v8"

// CreateRequestDTO - тело POST /requests. Команда и категория сюда не входят:
// они всегда берутся из карточки оборудования.
type CreateRequestDTO struct {
	Subject       string      `json:"subject" validate:"required,max=255"`
	Description   null.String `json:"description"`
	EquipmentID   uint64      `json:"equipment_id" validate:"required,gt=0"`
	RequestType   string      `json:"request_type" validate:"required,request_type"`
	Priority      string      `json:"priority,omitempty" validate:"omitempty,request_priority"`
	ScheduledDate null.String `json:"scheduled_date" validate:"omitempty,iso_date"`
	AssignedTo    null.Uint64 `json:"assigned_to" validate:"omitempty,gt=0"`
}

type CreatedRequestDTO struct {
	ID            uint64 `json:"id"`
	RequestNumber string `json:"request_number"`
}

type UpdateStatusDTO struct {
	Status        string       `json:"status" validate:"required,request_status"`
	DurationHours null.Float64 `json:"duration_hours" validate:"omitempty,gte=0,lte=999999.99"`
}

type AssignTechnicianDTO struct {
	TechnicianID uint64 `json:"technician_id" validate:"required,gt=0"`
}

type RequestDTO struct {
	ID                uint64            `json:"id"`
	RequestNumber     string            `json:"request_number"`
	Subject           string            `json:"subject"`
	Description       *string           `json:"description"`
	Equipment         ShortEquipmentDTO `json:"equipment"`
	EquipmentCategory string            `json:"equipment_category"`
	Team              ShortTeamDTO      `json:"team"`
	RequestType       string            `json:"request_type"`
	Priority          string            `json:"priority"`
	Status            string            `json:"status"`
	ScheduledDate     *string           `json:"scheduled_date"`
	CompletedDate     *string           `json:"completed_date"`
	DurationHours     *float64          `json:"duration_hours"`
	RequestedBy       ShortUserDTO      `json:"requested_by"`
	AssignedTo        *ShortUserDTO     `json:"assigned_to"`
	IsOverdue         bool              `json:"is_overdue"`
	CreatedAt         string            `json:"created_at"`
}

// KanbanDTO всегда содержит четыре ключа: new, in_progress, repaired, scrap.
type KanbanDTO map[string][]RequestDTO

type StatusChangedDTO struct {
	ID            uint64   `json:"id"`
	OldStatus     string   `json:"old_status"`
	NewStatus     string   `json:"new_status"`
	CompletedDate *string  `json:"completed_date"`
	DurationHours *float64 `json:"duration_hours"`
}

type TechnicianAssignedDTO struct {
	ID           uint64  `json:"id"`
	OldAssignee  *uint64 `json:"old_assigned_to"`
	TechnicianID uint64  `json:"assigned_to"`
}
