package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Токены и сессия
	ErrInvalidToken = fmt.Errorf("недопустимый токен")
	ErrTokenExpired = fmt.Errorf("срок действия токена истёк")
	ErrNoSession    = fmt.Errorf("сессия не найдена")

	// Авторизация
	ErrInvalidCredentials = fmt.Errorf("Неверный логин или пароль")
	ErrUnknownRole        = fmt.Errorf("Неизвестная роль")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Категории ошибок клиента. Типизированные ошибки ниже сопоставляются с ними через errors.Is.
	ErrAuth       = fmt.Errorf("ошибка аутентификации")
	ErrValidation = fmt.Errorf("ошибка валидации")
	ErrTransport  = fmt.Errorf("ошибка связи с сервером")
	ErrRejected   = fmt.Errorf("сервер отклонил запрос")

	// Кэш и пагинация
	ErrBusy          = fmt.Errorf("загрузка уже выполняется")
	ErrStaleResponse = fmt.Errorf("устаревший ответ сервера отброшен")
	ErrDuplicate     = fmt.Errorf("форма уже отправлена")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// AuthError - неверные учётные данные, отсутствующий или просроченный токен.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string        { return e.Message }
func (e *AuthError) Unwrap() error        { return e.Err }
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

func NewAuthError(message string, err error) error {
	return &AuthError{Message: message, Err: err}
}

// ValidationError - локальная проверка до отправки запроса на сервер.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransportError - сбой сети или HTTP-уровня.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Endpoint, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}
func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ServerRejection - корректный ответ без ожидаемого признака успеха.
type ServerRejection struct {
	Endpoint string
	Reason   string
}

func (e *ServerRejection) Error() string        { return fmt.Sprintf("%s: %s", e.Endpoint, e.Reason) }
func (e *ServerRejection) Is(target error) bool { return target == ErrRejected }

func NewServerRejection(endpoint, format string, args ...interface{}) error {
	return &ServerRejection{Endpoint: endpoint, Reason: fmt.Sprintf(format, args...)}
}

// HttpError - ошибка, которую консоль отдаёт своему клиенту.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// ToHttpError переводит ошибку сервиса в HTTP-ответ консоли.
// fallback - пользовательское сообщение для сбоев записи.
func ToHttpError(err error, fallback string) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		var details map[string]interface{}
		if len(validationErr.Fields) > 0 {
			details = make(map[string]interface{}, len(validationErr.Fields))
			for k, v := range validationErr.Fields {
				details[k] = v
			}
		}
		return NewHttpError(http.StatusBadRequest, validationErr.Message, err, details)
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return NewHttpError(http.StatusUnauthorized, authErr.Message, err, nil)
	}

	switch {
	case errors.Is(err, ErrForbidden):
		return NewHttpError(http.StatusForbidden, ErrForbidden.Error(), err, nil)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNoSession):
		return NewHttpError(http.StatusUnauthorized, ErrUnauthorized.Error(), err, nil)
	case errors.Is(err, ErrBusy):
		return NewHttpError(http.StatusConflict, ErrBusy.Error(), err, nil)
	case errors.Is(err, ErrDuplicate):
		return NewHttpError(http.StatusConflict, ErrDuplicate.Error(), err, nil)
	case errors.Is(err, ErrNotFound):
		return NewHttpError(http.StatusNotFound, ErrNotFound.Error(), err, nil)
	case errors.Is(err, ErrBadRequest):
		return NewHttpError(http.StatusBadRequest, ErrBadRequest.Error(), err, nil)
	case errors.Is(err, ErrRejected), errors.Is(err, ErrTransport):
		return NewHttpError(http.StatusBadGateway, fallback, err, nil)
	}
	return NewHttpError(http.StatusInternalServerError, fallback, err, nil)
}
