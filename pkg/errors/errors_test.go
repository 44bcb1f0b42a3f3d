package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHttpError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"валидация", &ValidationError{Message: "Введите корректную сумму"}, http.StatusBadRequest, "Введите корректную сумму"},
		{"аутентификация", NewAuthError("Неверный логин или пароль", ErrUnauthorized), http.StatusUnauthorized, "Неверный логин или пароль"},
		{"чужая заявка", ErrForbidden, http.StatusForbidden, ErrForbidden.Error()},
		{"занято", ErrBusy, http.StatusConflict, ErrBusy.Error()},
		{"повторная отправка", ErrDuplicate, http.StatusConflict, ErrDuplicate.Error()},
		{"не найдено", ErrNotFound, http.StatusNotFound, ErrNotFound.Error()},
		{"отказ сервера", NewServerRejection("PUT /x", "нет new_status"), http.StatusBadGateway, "fallback"},
		{"сеть", &TransportError{Endpoint: "GET /x", Message: "сервер недоступен"}, http.StatusBadGateway, "fallback"},
		{"прочее", errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			httpErr := ToHttpError(tc.err, "fallback")
			assert.Equal(t, tc.code, httpErr.Code)
			assert.Equal(t, tc.message, httpErr.Message)
		})
	}
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, errors.Is(NewAuthError("x", nil), ErrAuth))
	assert.True(t, errors.Is(NewValidationError("x"), ErrValidation))
	assert.True(t, errors.Is(&TransportError{}, ErrTransport))
	assert.True(t, errors.Is(NewServerRejection("e", "r"), ErrRejected))
	assert.False(t, errors.Is(NewServerRejection("e", "r"), ErrTransport))

	validation := ToHttpError(&ValidationError{Message: "m", Fields: map[string]string{"phone": "required"}}, "")
	assert.Equal(t, "required", validation.Details["phone"])
}
