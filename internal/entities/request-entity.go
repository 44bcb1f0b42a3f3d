package entities

import (
	"encoding/json"

	"github.com/aarondl/null/v8"

	"request-console/pkg/constants"
	"request-console/pkg/utils"
)

// ServiceRequest - кэшированная копия заявки. Источник истины - сервер.
type ServiceRequest struct {
	RequestID    uint64      `json:"request_id"`
	OperatorID   null.Uint64 `json:"operator_id"`
	EngineerID   null.Uint64 `json:"engineer_id"`
	EngineerName string      `json:"engineer_name,omitempty"`
	StatusID     int         `json:"status_id"`

	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Equipment    string `json:"equipment"`
	Description  string `json:"description"`

	CreationDate null.String `json:"creation_date"`
	AssignedTime null.String `json:"assigned_time"`
	InWorksTime  null.String `json:"in_works_time"`
	DoneTime     null.String `json:"done_time"`
}

// Techniq - имя поля "оборудование" в схеме сервера. Всегда совпадает с Equipment.
func (r ServiceRequest) Techniq() string { return r.Equipment }

// Adress - имя поля "адрес" в схеме сервера. Всегда совпадает с Address.
func (r ServiceRequest) Adress() string { return r.Address }

// MarshalJSON отдаёт UI обе формы имён полей и готовые к показу даты.
func (r ServiceRequest) MarshalJSON() ([]byte, error) {
	type plain ServiceRequest
	return json.Marshal(struct {
		plain
		Techniq             string `json:"techniq"`
		Adress              string `json:"adress"`
		StatusName          string `json:"status_name"`
		CreationDateDisplay string `json:"creation_date_display"`
		AssignedTimeDisplay string `json:"assigned_time_display"`
		InWorksTimeDisplay  string `json:"in_works_time_display"`
		DoneTimeDisplay     string `json:"done_time_display"`
	}{
		plain:               plain(r),
		Techniq:             r.Techniq(),
		Adress:              r.Adress(),
		StatusName:          constants.StatusName(r.StatusID),
		CreationDateDisplay: utils.FormatDisplay(r.CreationDate.String),
		AssignedTimeDisplay: utils.FormatDisplay(r.AssignedTime.String),
		InWorksTimeDisplay:  utils.FormatDisplay(r.InWorksTime.String),
		DoneTimeDisplay:     utils.FormatDisplay(r.DoneTime.String),
	})
}
