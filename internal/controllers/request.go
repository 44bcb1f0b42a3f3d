package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-console/internal/dto"
	"request-console/internal/services"
	"request-console/pkg/api"
	apperrors "request-console/pkg/errors"
	"request-console/pkg/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RequestController - справочник заявок оператора и менеджера.
type RequestController struct {
	directory services.DirectoryServiceInterface
	roster    services.RosterServiceInterface
	export    services.ExportServiceInterface
	dedup     *RequestDeduplicator
	perPage   int
	logger    *zap.Logger
}

func NewRequestController(
	directory services.DirectoryServiceInterface,
	roster services.RosterServiceInterface,
	export services.ExportServiceInterface,
	dedup *RequestDeduplicator,
	perPage int,
	logger *zap.Logger,
) *RequestController {
	return &RequestController{
		directory: directory,
		roster:    roster,
		export:    export,
		dedup:     dedup,
		perPage:   perPage,
		logger:    logger,
	}
}

// List загружает первую страницу по последнему применённому фильтру.
func (ctrl *RequestController) List(c echo.Context) error {
	state := ctrl.directory.Load(c.Request().Context())
	return api.SuccessOne(c, http.StatusOK, "Заявки получены", state)
}

func (ctrl *RequestController) Filter(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	var form dto.FilterFormDTO
	if err := c.Bind(&form); err != nil {
		logger.Error("Filter: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(c, badPayload(err), "")
	}
	if err := c.Validate(&form); err != nil {
		return api.ErrorResponse(c, err, "")
	}
	state := ctrl.directory.ApplyFilters(c.Request().Context(), services.FilterFromForm(form, ctrl.perPage))
	return api.SuccessOne(c, http.StatusOK, "Фильтр применён", state)
}

func (ctrl *RequestController) More(c echo.Context) error {
	state, err := ctrl.directory.LoadMore(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	return api.SuccessOne(c, http.StatusOK, "Страница загружена", state)
}

func (ctrl *RequestController) Create(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	var payload dto.CreateRequestDTO
	if err := c.Bind(&payload); err != nil {
		logger.Error("Create: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(c, badPayload(err), "")
	}

	key := submitKey("create_request", payload.Phone, payload.Address, payload.Equipment, payload.Description)
	if !ctrl.dedup.TryAcquire(key, submitWindow) {
		logger.Warn("Create: повторная отправка формы отклонена")
		return api.ErrorResponse(c, apperrors.ErrDuplicate, "")
	}
	result, err := ctrl.directory.Create(c.Request().Context(), payload)
	if err != nil {
		ctrl.dedup.Release(key)
		return api.ErrorResponse(c, err, "Не удалось создать заявку")
	}
	return api.SuccessOne(c, http.StatusCreated, "Заявка создана", result)
}

func (ctrl *RequestController) Update(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	var payload dto.UpdateRequestDTO
	if err := c.Bind(&payload); err != nil {
		logger.Error("Update: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(c, badPayload(err), "")
	}
	updated, err := ctrl.directory.Update(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, "Не удалось сохранить изменения")
	}
	return api.SuccessOne(c, http.StatusOK, "Заявка обновлена", updated)
}

// AssignEngineer - имя инженера берётся из формы или из списка инженеров.
func (ctrl *RequestController) AssignEngineer(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	var payload dto.AssignEngineerDTO
	if err := c.Bind(&payload); err != nil {
		logger.Error("AssignEngineer: ошибка привязки данных", zap.Error(err))
		return api.ErrorResponse(c, badPayload(err), "")
	}
	if payload.EngineerName == "" {
		payload.EngineerName, _ = ctrl.roster.EngineerName(payload.EngineerID)
	}
	updated, err := ctrl.directory.AssignEngineer(c.Request().Context(), id, payload)
	if err != nil {
		return api.ErrorResponse(c, err, "Не удалось назначить инженера")
	}
	return api.SuccessOne(c, http.StatusOK, "Инженер назначен", updated)
}

func (ctrl *RequestController) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	if err := ctrl.directory.Delete(c.Request().Context(), id); err != nil {
		return api.ErrorResponse(c, err, "Не удалось удалить заявку")
	}
	return api.SuccessOne(c, http.StatusOK, "Заявка удалена", ctrl.directory.Snapshot())
}

func (ctrl *RequestController) History(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	return api.SuccessOne(c, http.StatusOK, "История заявки", ctrl.directory.History(c.Request().Context(), id))
}

func (ctrl *RequestController) ToggleHistory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	opened, entries := ctrl.directory.ToggleHistory(c.Request().Context(), id)
	return api.SuccessOne(c, http.StatusOK, "История заявки", dto.HistoryViewDTO{OpenedID: opened, History: entries})
}

func (ctrl *RequestController) ToggleDetails(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	return api.SuccessOne(c, http.StatusOK, "Карточка заявки", dto.ToggleResultDTO{OpenedID: ctrl.directory.ToggleDetails(id)})
}

func (ctrl *RequestController) StartEditing(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	r, err := ctrl.directory.StartEditing(id)
	if err != nil {
		return api.ErrorResponse(c, err, "")
	}
	return api.SuccessOne(c, http.StatusOK, "Редактирование", r)
}

func (ctrl *RequestController) CancelEdit(c echo.Context) error {
	ctrl.directory.CancelEdit()
	return api.SuccessOne(c, http.StatusOK, "Редактирование отменено", ctrl.directory.Snapshot())
}

// Engineers - полный список инженеров для выпадающих списков.
func (ctrl *RequestController) Engineers(c echo.Context) error {
	engineers := ctrl.roster.FetchAllEngineers(c.Request().Context())
	return api.SuccessList(c, "Инженеры получены", engineers, uint64(len(engineers)), 1, len(engineers))
}

// Export отдаёт загруженные заявки файлом xlsx.
func (ctrl *RequestController) Export(c echo.Context) error {
	logger := middleware.LoggerFrom(c, ctrl.logger)
	requests := ctrl.directory.Requests()

	var buf bytes.Buffer
	if err := ctrl.export.WriteDirectory(&buf, requests); err != nil {
		logger.Error("Export: ошибка формирования файла", zap.Error(err))
		return api.ErrorResponse(c, err, "Не удалось выгрузить заявки")
	}

	fileName := ctrl.export.FileName(time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
