package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "request-console/pkg/errors"
)

// CustomValidator - обертка для использования в Echo и в сервисах
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.Check(i, "")
}

// Check проверяет структуру и возвращает ValidationError с понятным сообщением.
// message - текст для пользователя; если пуст, собирается из полей.
func (cv *CustomValidator) Check(i interface{}, message string) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError("%s", err.Error())
	}

	fields := make(map[string]string, len(validationErrors))
	var msgs []string
	for _, e := range validationErrors {
		fields[e.Field()] = e.Tag()
		msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
	}
	if message == "" {
		message = "Ошибка валидации: " + strings.Join(msgs, "; ")
	}
	return &apperrors.ValidationError{Message: message, Fields: fields}
}

// New создает и настраивает валидатор
func New() *CustomValidator {
	v := validator.New()

	// 1. Подключаем поддержку null-типов (из файла types_adapter.go)
	registerNullTypes(v)

	// 2. Регистрируем кастомные правила (из файла rules.go)
	// Если правило не зарегистрировалось, паникуем, консоль не должна стартовать
	if err := registerRules(v); err != nil {
		panic("ошибка регистрации валидаторов: " + err.Error())
	}

	// 3. В ошибках используем json-имена полей
	v.RegisterTagNameFunc(jsonFieldName)

	return &CustomValidator{validator: v}
}
