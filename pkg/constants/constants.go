// pkg/constants/constants.go
package constants

//============== LOG ACTIONS ==============

// Действия в журнале заявки (maintenance_request_logs.action).
const (
	LogActionCreated       = "created"
	LogActionStatusChanged = "status_changed"
	LogActionAssigned      = "assigned"
)

//============== REQUEST NUMBER ==============

// Формат номера заявки: REQ-<год>-<порядковый номер, 4 знака>.
const RequestNumberFormat = "REQ-%d-%04d"

// Ограничения колонок maintenance_requests.
const (
	SubjectMaxLength = 255
	// duration_hours NUMERIC(8,2)
	MaxDurationHours = 999999.99
)
