package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-console/internal/services"
	"request-console/pkg/api"
	"request-console/pkg/constants"
	apperrors "request-console/pkg/errors"
)

// DeskController - страница инженера.
type DeskController struct {
	desk   services.DeskServiceInterface
	logger *zap.Logger
}

func NewDeskController(desk services.DeskServiceInterface, logger *zap.Logger) *DeskController {
	return &DeskController{desk: desk, logger: logger}
}

func (ctrl *DeskController) Active(c echo.Context) error {
	requests := ctrl.desk.LoadActive(c.Request().Context())
	return api.SuccessList(c, "Активные заявки", requests, uint64(len(requests)), 1, len(requests))
}

// Day - GET /desk/day?date=YYYY-MM-DD.
func (ctrl *DeskController) Day(c echo.Context) error {
	requests, err := ctrl.desk.SelectDay(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	return api.SuccessList(c, "Заявки за день", requests, uint64(len(requests)), 1, len(requests))
}

// Events - заявки из уже загруженных, назначенные на день.
func (ctrl *DeskController) Events(c echo.Context) error {
	day, err := time.Parse(constants.DateLayout, strings.TrimSpace(c.QueryParam("date")))
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("Некорректная дата"), "")
	}
	events := ctrl.desk.EventsForDay(day)
	return api.SuccessList(c, "События дня", events, uint64(len(events)), 1, len(events))
}

func (ctrl *DeskController) Days(c echo.Context) error {
	return api.SuccessOne(c, http.StatusOK, "Календарь", ctrl.desk.Days(time.Now()))
}

func (ctrl *DeskController) Completed(c echo.Context) error {
	return api.SuccessOne(c, http.StatusOK, "Выполненные заявки", ctrl.desk.LoadCompleted(c.Request().Context()))
}

func (ctrl *DeskController) CompletedMore(c echo.Context) error {
	state, err := ctrl.desk.LoadMoreCompleted(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	return api.SuccessOne(c, http.StatusOK, "Страница загружена", state)
}

func (ctrl *DeskController) StartWork(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	r, err := ctrl.desk.StartWork(c.Request().Context(), id)
	if err != nil {
		ctrl.logger.Warn("StartWork: заявка не взята в работу", zap.Uint64("request_id", id), zap.Error(err))
		return api.ErrorResponse(c, err, "Не удалось начать работу")
	}
	return api.SuccessOne(c, http.StatusOK, "Работа начата", r)
}

func (ctrl *DeskController) Complete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	r, err := ctrl.desk.Complete(c.Request().Context(), id)
	if err != nil {
		ctrl.logger.Warn("Complete: заявка не завершена", zap.Uint64("request_id", id), zap.Error(err))
		return api.ErrorResponse(c, err, "Не удалось завершить заявку")
	}
	return api.SuccessOne(c, http.StatusOK, "Заявка выполнена", r)
}

func (ctrl *DeskController) Stats(c echo.Context) error {
	return api.SuccessOne(c, http.StatusOK, "Статистика", ctrl.desk.LoadStats(c.Request().Context()))
}

func (ctrl *DeskController) Profile(c echo.Context) error {
	return api.SuccessOne(c, http.StatusOK, "Профиль", ctrl.desk.Profile(c.Request().Context()))
}
