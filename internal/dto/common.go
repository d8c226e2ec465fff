package dto

type ShortUserDTO struct {
	ID       uint64  `json:"id"`
	FullName string  `json:"full_name"`
	Avatar   *string `json:"avatar,omitempty"`
}

type ShortTeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortEquipmentDTO struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	SerialNumber *string `json:"serial_number,omitempty"`
}
