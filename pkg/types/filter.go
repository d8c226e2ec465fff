package types

// RequestFilter - фильтры списка заявок. Нулевые значения не применяются.
type RequestFilter struct {
	TeamID       uint64 `json:"team_id,omitempty"`
	Status       string `json:"status,omitempty"`
	RequestType  string `json:"request_type,omitempty"`
	EquipmentID  uint64 `json:"equipment_id,omitempty"`
	AssignedTo   uint64 `json:"assigned_to,omitempty"`
	CalendarView bool   `json:"calendar_view,omitempty"`
}

// WithStatus возвращает копию фильтра с подмененным статусом.
func (f RequestFilter) WithStatus(status string) RequestFilter {
	f.Status = status
	return f
}

// StatsFilter сужает все счетчики статистики.
type StatsFilter struct {
	TeamID      uint64 `json:"team_id,omitempty"`
	EquipmentID uint64 `json:"equipment_id,omitempty"`
}

// EquipmentFilter - фильтры справочника оборудования.
type EquipmentFilter struct {
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	TeamID   uint64 `json:"team_id,omitempty"`
}
