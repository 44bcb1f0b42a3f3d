package services

import (
	"context"

	"github.com/shopspring/decimal"

	"request-console/internal/entities"
	"request-console/internal/integrations/backend"
)

// Ниже - ручки сервера, которые нужны каждому сервису. *backend.Client реализует их все.

type AuthAPI interface {
	Login(ctx context.Context, login, password string) (backend.LoginResponse, error)
}

type RequestsAPI interface {
	FilterRequests(ctx context.Context, filter backend.FilterPayload) (backend.RequestsPage, error)
	CreateRequest(ctx context.Context, payload backend.CreateRequestPayload) (backend.CreateRequestResponse, error)
	UpdateRequest(ctx context.Context, id uint64, patch backend.RequestPatch) error
	DeleteRequest(ctx context.Context, id uint64) (backend.DeleteRequestResponse, error)
	RequestHistory(ctx context.Context, id uint64) ([]entities.RequestHistoryEntry, error)
}

type RosterAPI interface {
	EngineerStats(ctx context.Context, page, perPage int) (backend.EngineersPage, error)
	UpdateBalance(ctx context.Context, engineerID uint64, newBalance decimal.Decimal) (backend.BalanceResponse, error)
	BalanceHistory(ctx context.Context, engineerID uint64) ([]entities.BalanceHistoryEntry, error)
	RegisterUser(ctx context.Context, payload backend.RegisterUserPayload) (uint64, error)
	UserCredentials(ctx context.Context, userID uint64) (entities.Credentials, error)
	DeleteUser(ctx context.Context, userID uint64) (backend.DeleteUserResponse, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
}

type DeskAPI interface {
	EngineerActive(ctx context.Context) (backend.EngineerRequests, error)
	EngineerDay(ctx context.Context, date string) (backend.EngineerRequests, error)
	EngineerCompleted(ctx context.Context, page int) (backend.EngineerRequests, error)
	UpdateRequest(ctx context.Context, id uint64, patch backend.RequestPatch) error
	EngineerStats(ctx context.Context, page, perPage int) (backend.EngineersPage, error)
	Profile(ctx context.Context) (entities.Profile, error)
	Balance(ctx context.Context, engineerID uint64) (backend.BalanceResponse, error)
}

var (
	_ AuthAPI     = (*backend.Client)(nil)
	_ RequestsAPI = (*backend.Client)(nil)
	_ RosterAPI   = (*backend.Client)(nil)
	_ DeskAPI     = (*backend.Client)(nil)
)
