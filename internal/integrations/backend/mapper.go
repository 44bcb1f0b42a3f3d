package backend

import (
	"fmt"
	"strings"

	"github.com/aarondl/null/v8"

	"request-console/internal/entities"
	"request-console/pkg/constants"
	"request-console/pkg/utils"
)

// Канонические имена полей, которые на сервере пишутся иначе.
const (
	FieldEquipment = "equipment"
	FieldAddress   = "address"
)

type wireField struct {
	create string
	update string
}

// wireFields - единственное место, где записаны расхождения имён полей.
// Чтение принимает оба написания, запись всегда идёт в серверном.
var wireFields = map[string]wireField{
	FieldEquipment: {create: "techniq", update: "techniq"},
	FieldAddress:   {create: "address", update: "adress"},
}

// canonicalByWire - обратная таблица для журнала изменений.
var canonicalByWire = func() map[string]string {
	m := make(map[string]string)
	for canonical, w := range wireFields {
		m[w.create] = canonical
		m[w.update] = canonical
	}
	return m
}()

// UpdateWireName - имя поля в теле PUT /requests/engineer/{id}.
func UpdateWireName(canonical string) string {
	if w, ok := wireFields[canonical]; ok {
		return w.update
	}
	return canonical
}

// CreateWireName - имя поля в теле POST /requests/.
func CreateWireName(canonical string) string {
	if w, ok := wireFields[canonical]; ok {
		return w.create
	}
	return canonical
}

// CanonicalName переводит серверное имя поля в каноническое.
func CanonicalName(wire string) string {
	if c, ok := canonicalByWire[wire]; ok {
		return c
	}
	return wire
}

// Подписи полей журнала изменений (родительный падеж: "Изменение Адреса").
var historyLabels = map[string]string{
	FieldEquipment:  "Оборудования",
	"status_id":     "Статуса",
	"request_id":    "ID заявки",
	"customer_name": "Имя клиента",
	FieldAddress:    "Адреса",
	"phone":         "Телефона",
	"description":   "Описания",
	"creation_date": "Дата создания",
	"assigned_time": "Дата назначения",
	"in_works_time": "Начало работы",
	"done_time":     "Завершено",
	"engineer_id":   "Инженера",
}

// HistoryLabel - подпись поля или само имя, если подписи нет.
func HistoryLabel(canonical string) string {
	if label, ok := historyLabels[canonical]; ok {
		return label
	}
	return canonical
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func flexToNull(f *FlexString) null.String {
	if f == nil || strings.TrimSpace(string(*f)) == "" {
		return null.String{}
	}
	return null.StringFrom(string(*f))
}

func flexIDToNull(f FlexUint64) null.Uint64 {
	if !f.Valid || f.Value == 0 {
		return null.Uint64{}
	}
	return null.Uint64From(f.Value)
}

// mapRequestToEntity проверяет запись на границе и переводит её в каноническую форму.
func mapRequestToEntity(r RequestRecord) (entities.ServiceRequest, error) {
	if !r.RequestID.Valid || r.RequestID.Value == 0 {
		return entities.ServiceRequest{}, fmt.Errorf("нет request_id")
	}
	if !constants.IsKnownStatus(r.StatusID) {
		return entities.ServiceRequest{}, fmt.Errorf("неизвестный status_id %d", r.StatusID)
	}
	return entities.ServiceRequest{
		RequestID:    r.RequestID.Value,
		OperatorID:   flexIDToNull(r.OperatorID),
		EngineerID:   flexIDToNull(r.EngineerID),
		EngineerName: utils.SafeDeref(r.EngineerName),
		StatusID:     r.StatusID,
		CustomerName: utils.SafeDeref(r.CustomerName),
		Phone:        utils.SafeDeref(r.Phone),
		Address:      firstNonEmpty(r.Address, r.Adress),
		Equipment:    firstNonEmpty(r.Equipment, r.Techniq),
		Description:  utils.SafeDeref(r.Description),
		CreationDate: flexToNull(r.CreationDate),
		AssignedTime: flexToNull(r.AssignedTime),
		InWorksTime:  flexToNull(r.InWorksTime),
		DoneTime:     flexToNull(r.DoneTime),
	}, nil
}

func mapHistoryToEntity(h historyRecord) entities.RequestHistoryEntry {
	field := CanonicalName(h.FieldName)
	return entities.RequestHistoryEntry{
		Field:       field,
		Label:       HistoryLabel(field),
		OldValue:    flexToNull(h.OldValue),
		NewValue:    flexToNull(h.NewValue),
		ChangedAt:   string(h.ChangedAt),
		ChangedAtUI: utils.FormatDisplay(string(h.ChangedAt)),
		ChangerName: utils.SafeDeref(h.ChangerName),
	}
}

func mapEngineerToEntity(e EngineerRecord) (entities.Engineer, error) {
	if !e.UserID.Valid || e.UserID.Value == 0 {
		return entities.Engineer{}, fmt.Errorf("нет user_id")
	}
	name := e.EngineerName
	if name == "" {
		name = e.Name
	}
	return entities.Engineer{
		UserID:           e.UserID.Value,
		EngineerName:     name,
		ActiveRequests:   e.ActiveRequests,
		CompletedInMonth: e.CompletedInMonth,
		Balance:          string(e.Balance),
	}, nil
}

func mapUserToEntity(u userRecord) (entities.User, error) {
	if !u.UserID.Valid || u.UserID.Value == 0 {
		return entities.User{}, fmt.Errorf("нет user_id")
	}
	return entities.User{
		UserID:   u.UserID.Value,
		Name:     u.Name,
		Role:     u.Role,
		Login:    u.Login,
		Email:    utils.SafeDeref(u.Email),
		Phone:    utils.SafeDeref(u.Phone),
		RoleName: constants.RoleName(u.Role),
	}, nil
}

func mapBalanceHistoryToEntity(b balanceHistoryRecord) (entities.BalanceHistoryEntry, error) {
	return entities.BalanceHistoryEntry{
		ID:         b.ID.Value,
		AdminID:    b.AdminID.Value,
		EngineerID: b.EngineerID.Value,
		OldSum:     string(b.OldSum),
		NewSum:     string(b.NewSum),
		ChangedAt:  string(b.ChangedAt),
	}, nil
}
