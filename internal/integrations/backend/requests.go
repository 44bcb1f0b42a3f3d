package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "request-console/pkg/errors"
	"request-console/pkg/metrics"
)

type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// call описывает один вызов сервера. label - шаблон пути для логов и метрик.
type call struct {
	method   string
	endpoint string
	label    string
	body     interface{}
	out      interface{}
}

func (c *Client) do(ctx context.Context, cl call) (err error) {
	started := time.Now()
	result := metrics.ResultOK
	defer func() {
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrAuth):
			result = metrics.ResultAuth
		case errors.Is(err, apperrors.ErrRejected):
			result = metrics.ResultRejected
		default:
			result = metrics.ResultTransport
		}
		metrics.ObserveBackendCall(cl.label, result, started)
	}()

	// Шаг 1: Тело запроса.
	var reader io.Reader
	if cl.body != nil {
		payload, mErr := json.Marshal(cl.body)
		if mErr != nil {
			return &apperrors.TransportError{Endpoint: cl.label, Message: "ошибка сериализации запроса", Err: mErr}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.endpoint, reader)
	if err != nil {
		return &apperrors.TransportError{Endpoint: cl.label, Message: "ошибка создания запроса", Err: err}
	}

	// Шаг 2: Заголовки. Без токена уходит пустой bearer, сервер ответит 401.
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.tokens.Token(ctx))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ngrok-skip-browser-warning", "true")
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(
		zap.String("method", cl.method),
		zap.String("endpoint", cl.label),
		zap.String("request_id", requestID),
	)

	// Шаг 3: Выполняем запрос.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Сервер недоступен", zap.Error(err))
		return &apperrors.TransportError{Endpoint: cl.label, Message: "сервер недоступен", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.TransportError{Endpoint: cl.label, StatusCode: resp.StatusCode, Message: "ошибка чтения ответа", Err: err}
	}

	// Шаг 4: Статус ответа.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := serverReason(raw, resp.Status)
		log.Warn("Сервер вернул ошибку", zap.Int("status", resp.StatusCode), zap.String("reason", reason))
		if resp.StatusCode == http.StatusUnauthorized {
			return apperrors.NewAuthError(reason, apperrors.ErrUnauthorized)
		}
		return &apperrors.TransportError{Endpoint: cl.label, StatusCode: resp.StatusCode, Message: reason}
	}

	// Шаг 5: Разбор тела.
	if cl.out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, cl.out); err != nil {
		log.Warn("Не удалось разобрать ответ сервера", zap.Error(err))
		return apperrors.NewServerRejection(cl.label, "некорректный ответ сервера: %v", err)
	}
	log.Debug("Ответ сервера получен", zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(started)))
	return nil
}

func serverReason(raw []byte, fallback string) string {
	var se serverError
	if err := json.Unmarshal(raw, &se); err == nil {
		for _, s := range []string{se.Error, se.Message, se.Msg} {
			if s != "" {
				return s
			}
		}
	}
	return fallback
}

// fetchList - универсальная загрузка списка с маппингом каждой записи во внутреннюю сущность.
// Записи, которые не удалось сконвертировать, пропускаются с предупреждением.
func fetchList[Ext interface{ GetID() uint64 }, Int any](
	c *Client,
	items []Ext,
	label string,
	mapper func(Ext) (Int, error),
) []Int {
	out := make([]Int, 0, len(items))
	for _, item := range items {
		internal, err := mapper(item)
		if err != nil {
			c.logger.Warn("Ошибка конвертации записи, запись пропущена",
				zap.String("endpoint", label),
				zap.Uint64("external_id", item.GetID()),
				zap.Error(err),
			)
			continue
		}
		out = append(out, internal)
	}
	return out
}

func idPath(format string, id uint64) string {
	return fmt.Sprintf(format, id)
}
