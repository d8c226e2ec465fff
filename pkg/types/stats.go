package types

type RequestStats struct {
	Total           int64 `json:"total"`
	NewCount        int64 `json:"new_count"`
	InProgressCount int64 `json:"in_progress_count"`
	RepairedCount   int64 `json:"repaired_count"`
	ScrapCount      int64 `json:"scrap_count"`
	CorrectiveCount int64 `json:"corrective_count"`
	PreventiveCount int64 `json:"preventive_count"`
	OverdueCount    int64 `json:"overdue_count"`
}
