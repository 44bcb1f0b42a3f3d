package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexUint64 принимает идентификатор числом, строкой или null (engineer_id в ответах инженера приходит строкой).
type FlexUint64 struct {
	Value uint64
	Valid bool
}

func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = FlexUint64{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = FlexUint64{}
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("идентификатор %q: %w", s, err)
	}
	*f = FlexUint64{Value: v, Valid: true}
	return nil
}

func (f FlexUint64) Ptr() *uint64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexString принимает строку или число (Decimal сервер может сериализовать и так, и так).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

//============== AUTH ==============

type LoginPayload struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginUser struct {
	UserID FlexUint64 `json:"user_id"`
	Name   string     `json:"name"`
	Role   string     `json:"role"`
	Phone  string     `json:"phone"`
	Email  string     `json:"email"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	User        *LoginUser `json:"user"`
}

//============== REQUESTS ==============

// RequestRecord - заявка в ответах сервера. Оборудование и адрес могут прийти под любым из двух имён.
type RequestRecord struct {
	RequestID    FlexUint64  `json:"request_id"`
	OperatorID   FlexUint64  `json:"operator_id"`
	EngineerID   FlexUint64  `json:"engineer_id"`
	EngineerName *string     `json:"engineer_name"`
	StatusID     int         `json:"status_id"`
	CustomerName *string     `json:"customer_name"`
	Phone        *string     `json:"phone"`
	Address      *string     `json:"address"`
	Adress       *string     `json:"adress"`
	Equipment    *string     `json:"equipment"`
	Techniq      *string     `json:"techniq"`
	Description  *string     `json:"description"`
	CreationDate *FlexString `json:"creation_date"`
	AssignedTime *FlexString `json:"assigned_time"`
	InWorksTime  *FlexString `json:"in_works_time"`
	DoneTime     *FlexString `json:"done_time"`
}

func (r RequestRecord) GetID() uint64 { return r.RequestID.Value }

type FilterPayload struct {
	EngineerID *uint64 `json:"engineer_id"`
	StatusIDs  []int   `json:"status_ids"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
}

type requestsPageRecord struct {
	Requests []RequestRecord `json:"requests"`
	Total    int             `json:"total"`
}

// CreateRequestPayload - POST /requests/. Сервер ждёт address и techniq именно в таком написании.
type CreateRequestPayload struct {
	StatusID     int     `json:"status_id"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	Techniq      string  `json:"techniq"`
	Description  string  `json:"description"`
	CustomerName string  `json:"customer_name,omitempty"`
	AssignedTime string  `json:"assigned_time,omitempty"`
	EngineerID   *uint64 `json:"engineer_id,omitempty"`
}

type CreateRequestResponse struct {
	Message      string      `json:"message"`
	RequestID    FlexUint64  `json:"request_id"`
	CreationDate FlexString  `json:"creation_date"`
	AssignedTime *FlexString `json:"assigned_time"`
}

// RequestPatch - частичное обновление заявки. Пустые указатели не отправляются.
type RequestPatch struct {
	StatusID     *int
	EngineerID   *uint64
	CustomerName *string
	Phone        *string
	Address      *string
	Equipment    *string
	Description  *string
	CreationDate *string
	AssignedTime *string
	InWorksTime  *string
	DoneTime     *string
}

func (p RequestPatch) Empty() bool {
	return len(p.Wire()) == 0
}

// Wire строит тело PUT с серверными именами полей.
func (p RequestPatch) Wire() map[string]interface{} {
	out := make(map[string]interface{})
	put := func(canonical string, v interface{}) {
		out[UpdateWireName(canonical)] = v
	}
	if p.StatusID != nil {
		put("status_id", *p.StatusID)
	}
	if p.EngineerID != nil {
		put("engineer_id", *p.EngineerID)
	}
	if p.CustomerName != nil {
		put("customer_name", *p.CustomerName)
	}
	if p.Phone != nil {
		put("phone", *p.Phone)
	}
	if p.Address != nil {
		put(FieldAddress, *p.Address)
	}
	if p.Equipment != nil {
		put(FieldEquipment, *p.Equipment)
	}
	if p.Description != nil {
		put("description", *p.Description)
	}
	if p.CreationDate != nil {
		put("creation_date", *p.CreationDate)
	}
	if p.AssignedTime != nil {
		put("assigned_time", *p.AssignedTime)
	}
	if p.InWorksTime != nil {
		put("in_works_time", *p.InWorksTime)
	}
	if p.DoneTime != nil {
		put("done_time", *p.DoneTime)
	}
	return out
}

type DeleteRequestResponse struct {
	Message   string `json:"message"`
	NewStatus string `json:"new_status"`
}

type historyRecord struct {
	FieldName   string      `json:"field_name"`
	OldValue    *FlexString `json:"old_value"`
	NewValue    *FlexString `json:"new_value"`
	ChangedAt   FlexString  `json:"changed_at"`
	ChangerName *string     `json:"changer_name"`
}

type historyResponse struct {
	RequestID FlexUint64      `json:"request_id"`
	History   []historyRecord `json:"history"`
}

//============== ENGINEER DESK ==============

type engineerRequestsRecord struct {
	DateFilter string          `json:"date_filter"`
	EngineerID FlexUint64      `json:"engineer_id"`
	Requests   []RequestRecord `json:"requests"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
}

//============== ENGINEERS & BALANCE ==============

type statsPayload struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type EngineerRecord struct {
	UserID           FlexUint64 `json:"user_id"`
	EngineerName     string     `json:"engineer_name"`
	Name             string     `json:"name"`
	ActiveRequests   int        `json:"active_requests"`
	CompletedInMonth int        `json:"completed_in_month"`
	Balance          FlexString `json:"balance"`
}

func (e EngineerRecord) GetID() uint64 { return e.UserID.Value }

type engineersPageRecord struct {
	Engineers []EngineerRecord `json:"engineers"`
	Total     int              `json:"total"`
}

// BalancePayload - PUT /balance/{id}. Сервер принимает абсолютное значение, не разницу.
type BalancePayload struct {
	NewBalance json.Number `json:"new_balance"`
}

type BalanceResponse struct {
	Message    string     `json:"message"`
	EngineerID FlexUint64 `json:"engineer_id"`
	Balance    FlexString `json:"balance"`
	NewBalance FlexString `json:"new_balance"`
}

type balanceHistoryRecord struct {
	ID         FlexUint64 `json:"bh_id"`
	AdminID    FlexUint64 `json:"admin_id"`
	EngineerID FlexUint64 `json:"engineer_id"`
	OldSum     FlexString `json:"old_sum"`
	NewSum     FlexString `json:"new_sum"`
	ChangedAt  FlexString `json:"changed_at"`
}

func (b balanceHistoryRecord) GetID() uint64 { return b.ID.Value }

type balanceHistoryResponse struct {
	EngineerID FlexUint64             `json:"engineer_id"`
	Message    string                 `json:"message"`
	History    []balanceHistoryRecord `json:"history"`
}

//============== USERS ==============

// RegisterUserPayload - POST /users/register.
type RegisterUserPayload struct {
	RoleID   int    `json:"role_id"`
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Schedule string `json:"schedule,omitempty"`
}

type RegisterUserResponse struct {
	Message string     `json:"message"`
	UserID  FlexUint64 `json:"user_id"`
}

type credentialsRecord struct {
	UserID   FlexUint64 `json:"user_id"`
	Login    string     `json:"login"`
	Password string     `json:"password"`
}

type DeleteUserResponse struct {
	Message string     `json:"message"`
	UserID  FlexUint64 `json:"user_id"`
}

type userRecord struct {
	UserID   FlexUint64  `json:"user_id"`
	Name     string      `json:"name"`
	Role     string      `json:"role"`
	RoleID   int         `json:"role_id"`
	Login    string      `json:"login"`
	Phone    *string     `json:"phone"`
	Email    *string     `json:"email"`
	Schedule *string     `json:"schedule"`
	Balance  *FlexString `json:"balance"`
}

func (u userRecord) GetID() uint64 { return u.UserID.Value }
