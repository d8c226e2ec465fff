package entities

import "time"

type RequestLog struct {
	ID        uint64    `db:"id"`
	RequestID uint64    `db:"request_id"`
	UserID    uint64    `db:"user_id"`
	Action    string    `db:"action"`
	OldValue  *string   `db:"old_value"`
	NewValue  *string   `db:"new_value"`
	CreatedAt time.Time `db:"created_at"`
}
