package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "request-console/pkg/errors"
)

// parseID читает положительный числовой параметр пути.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err, nil)
	}
	return id, nil
}

func badPayload(err error) error {
	return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil)
}
