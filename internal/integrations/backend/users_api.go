package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"request-console/internal/entities"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/utils"
)

// EngineersPage - страница статистики инженеров.
type EngineersPage struct {
	Engineers []entities.Engineer `json:"engineers"`
	Total     int                 `json:"total"`
}

func (c *Client) EngineerStats(ctx context.Context, page, perPage int) (EngineersPage, error) {
	const label = "POST /requests/engineers/stats"
	var raw engineersPageRecord
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/requests/engineers/stats",
		label:    label,
		body:     statsPayload{Page: page, PerPage: perPage},
		out:      &raw,
	})
	if err != nil {
		return EngineersPage{}, err
	}
	return EngineersPage{
		Engineers: fetchList(c, raw.Engineers, label, mapEngineerToEntity),
		Total:     raw.Total,
	}, nil
}

// UpdateBalance - PUT /balance/{id} с абсолютным значением в двух знаках.
func (c *Client) UpdateBalance(ctx context.Context, engineerID uint64, newBalance decimal.Decimal) (BalanceResponse, error) {
	var resp BalanceResponse
	err := c.do(ctx, call{
		method:   http.MethodPut,
		endpoint: idPath("/balance/%d", engineerID),
		label:    "PUT /balance/{id}",
		body:     BalancePayload{NewBalance: decimalNumber(newBalance)},
		out:      &resp,
	})
	return resp, err
}

// decimalNumber - число в JSON (не строка) с двумя знаками после запятой.
func decimalNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func (c *Client) Balance(ctx context.Context, engineerID uint64) (BalanceResponse, error) {
	var resp BalanceResponse
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: idPath("/balance/%d", engineerID),
		label:    "GET /balance/{id}",
		out:      &resp,
	})
	return resp, err
}

func (c *Client) BalanceHistory(ctx context.Context, engineerID uint64) ([]entities.BalanceHistoryEntry, error) {
	const label = "GET /balance/history/{id}"
	var raw balanceHistoryResponse
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: idPath("/balance/history/%d", engineerID),
		label:    label,
		out:      &raw,
	})
	if err != nil {
		return nil, err
	}
	return fetchList(c, raw.History, label, mapBalanceHistoryToEntity), nil
}

// RegisterUser - POST /users/register. Успех подтверждается наличием user_id.
func (c *Client) RegisterUser(ctx context.Context, payload RegisterUserPayload) (uint64, error) {
	const label = "POST /users/register"
	var resp RegisterUserResponse
	if err := c.do(ctx, call{method: http.MethodPost, endpoint: "/users/register", label: label, body: payload, out: &resp}); err != nil {
		return 0, err
	}
	if !resp.UserID.Valid || resp.UserID.Value == 0 {
		return 0, apperrors.NewServerRejection(label, "в ответе нет user_id")
	}
	return resp.UserID.Value, nil
}

func (c *Client) UserCredentials(ctx context.Context, userID uint64) (entities.Credentials, error) {
	var raw credentialsRecord
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: idPath("/users/%d/credentials", userID),
		label:    "GET /users/{id}/credentials",
		out:      &raw,
	})
	if err != nil {
		return entities.Credentials{}, err
	}
	return entities.Credentials{Login: raw.Login, Password: raw.Password}, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID uint64) (DeleteUserResponse, error) {
	var resp DeleteUserResponse
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		endpoint: idPath("/users/%d", userID),
		label:    "DELETE /users/{id}",
		out:      &resp,
	})
	return resp, err
}

func (c *Client) ListUsers(ctx context.Context) ([]entities.User, error) {
	const label = "GET /users/"
	var raw []userRecord
	if err := c.do(ctx, call{method: http.MethodGet, endpoint: "/users/", label: label, out: &raw}); err != nil {
		return nil, err
	}
	return fetchList(c, raw, label, mapUserToEntity), nil
}

func (c *Client) Profile(ctx context.Context) (entities.Profile, error) {
	var raw userRecord
	if err := c.do(ctx, call{method: http.MethodGet, endpoint: "/users/profile", label: "GET /users/profile", out: &raw}); err != nil {
		return entities.Profile{}, err
	}
	profile := entities.Profile{
		SessionUser: entities.SessionUser{
			UserID: raw.UserID.Value,
			Name:   raw.Name,
			Role:   raw.Role,
			Email:  utils.SafeDeref(raw.Email),
			Phone:  utils.SafeDeref(raw.Phone),
		},
		Schedule: utils.SafeDeref(raw.Schedule),
	}
	if raw.Balance != nil {
		profile.Balance = string(*raw.Balance)
	}
	return profile, nil
}
