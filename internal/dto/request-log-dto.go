package dto

type RequestLogDTO struct {
	ID        uint64       `json:"id"`
	RequestID uint64       `json:"request_id"`
	User      ShortUserDTO `json:"user"`
	Action    string       `json:"action"`
	OldValue  *string      `json:"old_value"`
	NewValue  *string      `json:"new_value"`
	CreatedAt string       `json:"created_at"`
}
