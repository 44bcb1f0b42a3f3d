package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"request-console/internal/repositories"
	"request-console/pkg/constants"
)

// TokenSource отдаёт bearer-токен для каждого исходящего вызова.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StorageTokenSource читает токен прямо из локального хранилища сессии.
type StorageTokenSource struct {
	storage repositories.LocalStorageInterface
}

func NewStorageTokenSource(storage repositories.LocalStorageInterface) *StorageTokenSource {
	return &StorageTokenSource{storage: storage}
}

// Token - пустая строка, если токена нет или хранилище недоступно.
func (s *StorageTokenSource) Token(ctx context.Context) string {
	token, _, err := s.storage.GetItem(ctx, constants.StorageKeyToken)
	if err != nil {
		return ""
	}
	return token
}

// Client - фасад REST API сервера заявок.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logger     *zap.Logger
}

// New - timeout == 0 означает, что клиент ждёт ответа без ограничения.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logger:     logger.Named("backend_client"),
	}
}

// NewWithHTTPClient нужен тестам с httptest-сервером.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, tokens TokenSource, logger *zap.Logger) *Client {
	c := New(baseURL, 0, tokens, logger)
	c.httpClient = httpClient
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}
