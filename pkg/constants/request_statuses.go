package constants

// --- СТАТУСЫ ЗАЯВОК (Совпадает со значениями в БД) ---
const (
	RequestStatusNew        = "new"
	RequestStatusInProgress = "in_progress"
	RequestStatusRepaired   = "repaired"
	RequestStatusScrap      = "scrap"
)

// Порядок колонок канбан-доски.
var KanbanStatuses = []string{
	RequestStatusNew,
	RequestStatusInProgress,
	RequestStatusRepaired,
	RequestStatusScrap,
}

// Терминальные статусы: выставляют completed_date.
var TerminalStatuses = []string{
	RequestStatusRepaired,
	RequestStatusScrap,
}

func IsTerminalStatus(code string) bool {
	for _, s := range TerminalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func IsRequestStatus(code string) bool {
	for _, s := range KanbanStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- ТИПЫ ЗАЯВОК ---
const (
	RequestTypeCorrective = "corrective"
	RequestTypePreventive = "preventive"
)

var RequestTypes = []string{RequestTypeCorrective, RequestTypePreventive}

// --- ПРИОРИТЕТЫ (по возрастанию срочности) ---
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// PriorityRank - вес приоритета для сортировки, 0 для неизвестного значения.
func PriorityRank(p string) int {
	for i, v := range Priorities {
		if v == p {
			return i + 1
		}
	}
	return 0
}

// --- СТАТУСЫ ОБОРУДОВАНИЯ ---
const (
	EquipmentStatusActive      = "active"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusScrapped    = "scrapped"
)

var EquipmentStatuses = []string{EquipmentStatusActive, EquipmentStatusMaintenance, EquipmentStatusScrapped}
