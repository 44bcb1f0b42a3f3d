package entities

import "github.com/aarondl/null/v8"

// RequestHistoryEntry - запись журнала изменений заявки. Журнал ведёт сервер, только добавление.
type RequestHistoryEntry struct {
	Field       string      `json:"field"`
	Label       string      `json:"label"`
	OldValue    null.String `json:"old_value"`
	NewValue    null.String `json:"new_value"`
	ChangedAt   string      `json:"changed_at"`
	ChangedAtUI string      `json:"changed_at_display"`
	ChangerName string      `json:"changer_name"`
}
