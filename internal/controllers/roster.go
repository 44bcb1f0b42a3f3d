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

// RosterController - страница сотрудников менеджера.
type RosterController struct {
	roster services.RosterServiceInterface
	dedup  *RequestDeduplicator
	logger *zap.Logger
}

func NewRosterController(roster services.RosterServiceInterface, dedup *RequestDeduplicator, logger *zap.Logger) *RosterController {
	return &RosterController{roster: roster, dedup: dedup, logger: logger}
}

func (ctrl *RosterController) List(c echo.Context) error {
	return api.SuccessOne(c, http.StatusOK, "Инженеры получены", ctrl.roster.Load(c.Request().Context()))
}

func (ctrl *RosterController) More(c echo.Context) error {
	state, err := ctrl.roster.LoadNextPage(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	return api.SuccessOne(c, http.StatusOK, "Страница загружена", state)
}

func (ctrl *RosterController) AdjustBalance(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	var payload dto.AdjustBalanceDTO
	if err := c.Bind(&payload); err != nil {
		logger.Error("AdjustBalance: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(c, badPayload(err), "")
	}
	result, err := ctrl.roster.AdjustBalance(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, "Не удалось изменить баланс")
	}
	return api.SuccessOne(c, http.StatusOK, "Баланс изменён", result)
}

func (ctrl *RosterController) BalanceHistory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	history := ctrl.roster.BalanceHistory(c.Request().Context(), id)
	return api.SuccessList(c, "История баланса", history, uint64(len(history)), 1, len(history))
}

func (ctrl *RosterController) RevealCredentials(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	view, err := ctrl.roster.RevealCredentials(c.Request().Context(), id)
	if err != nil {
		return api.ErrorResponse(c, err, "Не удалось получить учётные данные")
	}
	return api.SuccessOne(c, http.StatusOK, "Учётные данные", view)
}

func (ctrl *RosterController) CloseCredentials(c echo.Context) error {
	ctrl.roster.CloseCredentials()
	return api.SuccessOne[any](c, http.StatusOK, "Окно закрыто", nil)
}

func (ctrl *RosterController) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	if err := ctrl.roster.DeleteUser(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err, "Не удалось удалить сотрудника")
	}
	return api.SuccessOne(c, http.StatusOK, "Сотрудник удалён", ctrl.roster.Snapshot())
}

func (ctrl *RosterController) CreateUser(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	var payload dto.CreateUserDTO
	if err := c.Bind(&payload); err != nil {
		logger.Error("CreateUser: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(c, badPayload(err), "")
	}

	key := submitKey("create_user", payload.Login)
	if !ctrl.dedup.TryAcquire(key, submitWindow) {
		logger.Warn("CreateUser: повторная отправка формы отклонена", zap.String("login", payload.Login))
		return api.ErrorResponse(c, apperrors.ErrDuplicate, "")
	}
	result, err := ctrl.roster.CreateUser(c.Request().Context(), payload)
	if err != nil {
		ctrl.dedup.Release(key)
		return api.ErrorResponse(c, err, "Не удалось создать сотрудника")
	}
	return api.SuccessOne(c, http.StatusCreated, "Сотрудник создан", result)
}

func (ctrl *RosterController) Employees(c echo.Context) error {
	employees := ctrl.roster.LoadEmployees(c.Request().Context())
	return api.SuccessList(c, "Сотрудники получены", employees, uint64(len(employees)), 1, len(employees))
}
