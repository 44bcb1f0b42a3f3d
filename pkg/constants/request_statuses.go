package constants

// --- СТАТУСЫ ЗАЯВОК (совпадают с status_id на сервере) ---
const (
	StatusNew        = 1
	StatusAssigned   = 2
	StatusInProgress = 3
	StatusDone       = 4
	StatusDeleted    = 5
)

// Статусы фильтра по умолчанию: все, кроме удалённых.
var DefaultFilterStatuses = []int{StatusNew, StatusAssigned, StatusInProgress, StatusDone}

var statusNames = map[int]string{
	StatusNew:        "Новая",
	StatusAssigned:   "Назначена",
	StatusInProgress: "В работе",
	StatusDone:       "Выполнена",
	StatusDeleted:    "Удалена",
}

// StatusName возвращает человекочитаемое название статуса.
func StatusName(id int) string {
	if name, ok := statusNames[id]; ok {
		return name
	}
	return "Неизвестный статус"
}

func IsKnownStatus(id int) bool {
	_, ok := statusNames[id]
	return ok
}
