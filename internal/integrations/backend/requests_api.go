package backend

import (
	"context"
	"net/http"
	"net/url"

	"request-console/internal/entities"
	apperrors "request-console/pkg/errors"
)

// RequestsPage - страница заявок и общее количество по фильтру.
type RequestsPage struct {
	Requests []entities.ServiceRequest `json:"requests"`
	Total    int                       `json:"total"`
}

// EngineerRequests - ответ ручек /requests/engineer*.
type EngineerRequests struct {
	EngineerID uint64
	DateFilter string
	Requests   []entities.ServiceRequest
	Total      int
	Page       int
	PerPage    int
}

func (c *Client) FilterRequests(ctx context.Context, filter FilterPayload) (RequestsPage, error) {
	const label = "POST /requests/filter"
	var raw requestsPageRecord
	if err := c.do(ctx, call{method: http.MethodPost, endpoint: "/requests/filter", label: label, body: filter, out: &raw}); err != nil {
		return RequestsPage{}, err
	}
	return RequestsPage{
		Requests: fetchList(c, raw.Requests, label, mapRequestToEntity),
		Total:    raw.Total,
	}, nil
}

// CreateRequest - POST /requests/. Успех подтверждается только наличием request_id.
func (c *Client) CreateRequest(ctx context.Context, payload CreateRequestPayload) (CreateRequestResponse, error) {
	const label = "POST /requests/"
	var resp CreateRequestResponse
	if err := c.do(ctx, call{method: http.MethodPost, endpoint: "/requests/", label: label, body: payload, out: &resp}); err != nil {
		return CreateRequestResponse{}, err
	}
	if !resp.RequestID.Valid || resp.RequestID.Value == 0 {
		return CreateRequestResponse{}, apperrors.NewServerRejection(label, "в ответе нет request_id")
	}
	return resp, nil
}

// UpdateRequest - PUT /requests/engineer/{id}. Этой же ручкой пользуются инженер и оператор.
func (c *Client) UpdateRequest(ctx context.Context, id uint64, patch RequestPatch) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		endpoint: idPath("/requests/engineer/%d", id),
		label:    "PUT /requests/engineer/{id}",
		body:     patch.Wire(),
	})
}

// DeleteRequest - мягкое удаление. Подтверждением служит только new_status == "deleted"; проверяет вызывающий.
func (c *Client) DeleteRequest(ctx context.Context, id uint64) (DeleteRequestResponse, error) {
	var resp DeleteRequestResponse
	err := c.do(ctx, call{
		method:   http.MethodPut,
		endpoint: idPath("/requests/delete/%d", id),
		label:    "PUT /requests/delete/{id}",
		out:      &resp,
	})
	return resp, err
}

func (c *Client) RequestHistory(ctx context.Context, id uint64) ([]entities.RequestHistoryEntry, error) {
	var raw historyResponse
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: idPath("/requests/history/%d", id),
		label:    "GET /requests/history/{id}",
		out:      &raw,
	})
	if err != nil {
		return nil, err
	}
	out := make([]entities.RequestHistoryEntry, 0, len(raw.History))
	for _, h := range raw.History {
		out = append(out, mapHistoryToEntity(h))
	}
	return out, nil
}

// EngineerDay - GET /requests/engineer?date=YYYY-MM-DD.
func (c *Client) EngineerDay(ctx context.Context, date string) (EngineerRequests, error) {
	return c.engineerRequests(ctx, "/requests/engineer?date="+url.QueryEscape(date), "GET /requests/engineer")
}

func (c *Client) EngineerActive(ctx context.Context) (EngineerRequests, error) {
	return c.engineerRequests(ctx, "/requests/engineer/active", "GET /requests/engineer/active")
}

func (c *Client) EngineerCompleted(ctx context.Context, page int) (EngineerRequests, error) {
	return c.engineerRequests(ctx, idPath("/requests/engineer/completed/%d", uint64(page)), "GET /requests/engineer/completed/{page}")
}

func (c *Client) engineerRequests(ctx context.Context, endpoint, label string) (EngineerRequests, error) {
	var raw engineerRequestsRecord
	if err := c.do(ctx, call{method: http.MethodGet, endpoint: endpoint, label: label, out: &raw}); err != nil {
		return EngineerRequests{}, err
	}
	return EngineerRequests{
		EngineerID: raw.EngineerID.Value,
		DateFilter: raw.DateFilter,
		Requests:   fetchList(c, raw.Requests, label, mapRequestToEntity),
		Total:      raw.Total,
		Page:       raw.Page,
		PerPage:    raw.PerPage,
	}, nil
}
