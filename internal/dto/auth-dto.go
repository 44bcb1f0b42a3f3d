package dto

import "request-console/internal/entities"

// LoginDTO - форма входа. Длину пароля проверяет сервер.
type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResultDTO struct {
	Token   string               `json:"token"`
	User    entities.SessionUser `json:"user"`
	Role    string               `json:"role"`
	Landing string               `json:"landing"`
}

// SessionInfoDTO - GET /api/auth/session.
type SessionInfoDTO struct {
	Authenticated bool                  `json:"authenticated"`
	User          *entities.SessionUser `json:"user,omitempty"`
	Role          string                `json:"role,omitempty"`
	Landing       string                `json:"landing,omitempty"`
	Subject       string                `json:"subject,omitempty"`
	ExpiresAt     string                `json:"expires_at,omitempty"`
	Expired       bool                  `json:"expired"`
}

type RedirectDTO struct {
	Redirect string `json:"redirect"`
}
