package dto

import "request-console/internal/entities"

// FilterFormDTO - значения формы фильтра в том виде, как их присылает UI.
// Даты могут быть без времени ("2024-05-01"), статус - один или пусто.
type FilterFormDTO struct {
	EngineerID *uint64 `json:"engineer_id,omitempty" validate:"omitempty,gt=0"`
	StatusID   *int    `json:"status_id,omitempty" validate:"omitempty,request_status"`
	StatusIDs  []int   `json:"status_ids,omitempty" validate:"omitempty,dive,request_status"`
	StartDate  string  `json:"start_date,omitempty" validate:"omitempty,filter_date"`
	EndDate    string  `json:"end_date,omitempty" validate:"omitempty,filter_date"`
	PerPage    int     `json:"per_page,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// DirectoryStateDTO - снимок справочника заявок для UI.
type DirectoryStateDTO struct {
	Requests        []entities.ServiceRequest `json:"requests"`
	Total           int                       `json:"total"`
	Page            int                       `json:"page"`
	PerPage         int                       `json:"per_page"`
	HasMore         bool                      `json:"has_more"`
	Busy            bool                      `json:"busy"`
	OpenedDetailsID uint64                    `json:"opened_details_id,omitempty"`
	EditingID       uint64                    `json:"editing_id,omitempty"`
	OpenedHistoryID uint64                    `json:"opened_history_id,omitempty"`
}
