package dto

import "request-console/internal/entities"

const (
	BalanceAdd      = "add"
	BalanceSubtract = "subtract"
)

// AdjustBalanceDTO - сумма приходит строкой из поля ввода.
type AdjustBalanceDTO struct {
	Amount    string `json:"amount" validate:"required,positive_decimal"`
	Direction string `json:"direction" validate:"required,oneof=add subtract"`
}

// CreateUserDTO - форма нового сотрудника.
type CreateUserDTO struct {
	Role     string `json:"role" validate:"required,console_role"`
	Name     string `json:"name" validate:"required"`
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

type BalanceResultDTO struct {
	EngineerID uint64 `json:"engineer_id"`
	Balance    string `json:"balance"`
}

type CreateUserResultDTO struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

// RosterStateDTO - снимок страницы сотрудников.
type RosterStateDTO struct {
	Engineers   []entities.Engineer `json:"engineers"`
	Total       int                 `json:"total"`
	CurrentPage int                 `json:"current_page"`
	PerPage     int                 `json:"per_page"`
	HasMore     bool                `json:"has_more"`
	Busy        bool                `json:"busy"`
}

type CredentialsViewDTO struct {
	UserID   uint64 `json:"user_id"`
	Login    string `json:"login"`
	Password string `json:"password"`
}
