package entities

// Engineer - строка статистики инженера. Все агрегаты считает сервер.
type Engineer struct {
	UserID           uint64 `json:"user_id"`
	EngineerName     string `json:"engineer_name"`
	ActiveRequests   int    `json:"active_requests"`
	CompletedInMonth int    `json:"completed_in_month"`
	Balance          string `json:"balance"`
}

// BalanceHistoryEntry - запись истории изменения баланса.
type BalanceHistoryEntry struct {
	ID         uint64 `json:"bh_id"`
	AdminID    uint64 `json:"admin_id"`
	EngineerID uint64 `json:"engineer_id"`
	OldSum     string `json:"old_sum"`
	NewSum     string `json:"new_sum"`
	ChangedAt  string `json:"changed_at"`
}
