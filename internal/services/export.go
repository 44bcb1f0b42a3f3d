package services

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"request-console/internal/entities"
	"request-console/pkg/constants"
	"request-console/pkg/utils"
)

const exportSheet = "Заявки"

var exportHeaders = []interface{}{
	"ID", "Статус", "Клиент", "Телефон", "Адрес", "Оборудование", "Описание",
	"Инженер", "Создана", "Назначена", "В работе с", "Выполнена",
}

type ExportServiceInterface interface {
	FileName(now time.Time) string
	WriteDirectory(w io.Writer, requests []entities.ServiceRequest) error
}

// ExportService выгружает кэш справочника в xlsx. Даты и статусы - в том же виде, что видит пользователь.
type ExportService struct {
	logger *zap.Logger
}

func NewExportService(logger *zap.Logger) *ExportService {
	return &ExportService{logger: logger.Named("export")}
}

func (s *ExportService) FileName(now time.Time) string {
	return fmt.Sprintf("requests_%s.xlsx", now.Format(constants.DateLayout))
}

func (s *ExportService) WriteDirectory(w io.Writer, requests []entities.ServiceRequest) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Не удалось закрыть книгу", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "L1", style)
	}

	for i, r := range requests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := requestRow(r)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(exportSheet, "C", "F", 25)
	_ = f.SetColWidth(exportSheet, "G", "G", 40)
	_ = f.SetColWidth(exportSheet, "H", "L", 20)

	s.logger.Info("Выгрузка заявок", zap.Int("rows", len(requests)))
	return f.Write(w)
}

func requestRow(r entities.ServiceRequest) []interface{} {
	return []interface{}{
		r.RequestID,
		constants.StatusName(r.StatusID),
		r.CustomerName,
		r.Phone,
		r.Address,
		r.Equipment,
		r.Description,
		r.EngineerName,
		utils.FormatDisplay(r.CreationDate.String),
		utils.FormatDisplay(r.AssignedTime.String),
		utils.FormatDisplay(r.InWorksTime.String),
		utils.FormatDisplay(r.DoneTime.String),
	}
}
