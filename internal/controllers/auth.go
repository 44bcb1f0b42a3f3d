package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-console/internal/dto"
	"request-console/internal/services"
	"request-console/pkg/api"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/middleware"
)

type AuthController struct {
	sessionService services.SessionServiceInterface
	logger         *zap.Logger
}

func NewAuthController(
	sessionService services.SessionServiceInterface,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		sessionService: sessionService,
		logger:         logger,
	}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(c, badPayload(err), "")
	}

	result, err := ctrl.sessionService.Login(c.Request().Context(), payload)
	if err != nil {
		logger.Warn("Login: вход не выполнен", zap.String("login", payload.Login), zap.Error(err))
		return api.ErrorResponse(c, err, apperrors.ErrInvalidCredentials.Error())
	}

	return api.SuccessOne(c, http.StatusOK, "Вход выполнен", result)
}

// Logout очищает локальную сессию и возвращает адрес входа.
func (ctrl *AuthController) Logout(c echo.Context) error {
	redirect, err := ctrl.sessionService.Logout(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, "Не удалось завершить сессию")
	}
	return api.SuccessOne(c, http.StatusOK, "Сессия завершена", dto.RedirectDTO{Redirect: redirect})
}

func (ctrl *AuthController) Session(c echo.Context) error {
	return api.SuccessOne(c, http.StatusOK, "Состояние сессии", ctrl.sessionService.Info(c.Request().Context()))
}
