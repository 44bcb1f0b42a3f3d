package dto

import "request-console/internal/entities"

// CreateRequestDTO - форма создания заявки.
type CreateRequestDTO struct {
	CustomerName string  `json:"customer_name"`
	Phone        string  `json:"phone" validate:"required"`
	Address      string  `json:"address" validate:"required"`
	Equipment    string  `json:"equipment" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	EngineerID   *uint64 `json:"engineer_id,omitempty" validate:"omitempty,gt=0"`
	AssignedTime *string `json:"assigned_time,omitempty" validate:"omitempty,naive_datetime"`
}

// UpdateRequestDTO - правка заявки. Отправляются только заданные поля.
type UpdateRequestDTO struct {
	CustomerName *string `json:"customer_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Equipment    *string `json:"equipment,omitempty"`
	Description  *string `json:"description,omitempty"`
	StatusID     *int    `json:"status_id,omitempty" validate:"omitempty,request_status"`
	CreationDate *string `json:"creation_date,omitempty" validate:"omitempty,naive_datetime"`
	AssignedTime *string `json:"assigned_time,omitempty" validate:"omitempty,naive_datetime"`
	InWorksTime  *string `json:"in_works_time,omitempty" validate:"omitempty,naive_datetime"`
	DoneTime     *string `json:"done_time,omitempty" validate:"omitempty,naive_datetime"`
}

type AssignEngineerDTO struct {
	EngineerID   uint64 `json:"engineer_id" validate:"required,gt=0"`
	EngineerName string `json:"engineer_name"`
}

type CreateRequestResultDTO struct {
	RequestID    uint64 `json:"request_id"`
	StatusID     int    `json:"status_id"`
	CreationDate string `json:"creation_date"`
}

// ToggleResultDTO - какой идентификатор сейчас открыт во view (0 - ничего).
type ToggleResultDTO struct {
	OpenedID uint64 `json:"opened_id"`
}

// HistoryViewDTO - состояние окна журнала изменений.
type HistoryViewDTO struct {
	OpenedID uint64                         `json:"opened_id"`
	History  []entities.RequestHistoryEntry `json:"history"`
}
