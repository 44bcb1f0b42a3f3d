package dto

import "request-console/internal/entities"

// DayDTO - ячейка календарной ленты инженера.
type DayDTO struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	Weekday string `json:"weekday"`
	Today   bool   `json:"today"`
}

type SelectDayDTO struct {
	Date string `json:"date" query:"date" validate:"required,datetime=2006-01-02"`
}

type EngineerStatsDTO struct {
	EngineerID       uint64 `json:"engineer_id"`
	ActiveRequests   int    `json:"active_requests"`
	CompletedInMonth int    `json:"completed_in_month"`
	Balance          string `json:"balance"`
	Found            bool   `json:"found"`
}

type CompletedStateDTO struct {
	Requests []entities.ServiceRequest `json:"requests"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	HasMore  bool                      `json:"has_more"`
	Busy     bool                      `json:"busy"`
}
