package services

import "maintenance-system/pkg/constants"

// requestTransitions - допустимые переходы статусов заявки.
// Сейчас разрешен любой переход; чтобы ужесточить процесс, достаточно убрать пары из таблицы.
var requestTransitions = map[string]map[string]bool{
	constants.RequestStatusNew:        allStatuses(),
	constants.RequestStatusInProgress: allStatuses(),
	constants.RequestStatusRepaired:   allStatuses(),
	constants.RequestStatusScrap:      allStatuses(),
}

func allStatuses() map[string]bool {
	m := make(map[string]bool, len(constants.KanbanStatuses))
	for _, s := range constants.KanbanStatuses {
		m[s] = true
	}
	return m
}

func CanTransition(from, to string) bool {
	return requestTransitions[from][to]
}
