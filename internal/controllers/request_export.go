package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"maintenance-system/internal/dto"
	"maintenance-system/pkg/utils"
)

const exportSheet = "Заявки"

var exportHeaders = []string{
	"Номер", "Тема", "Оборудование", "Серийный номер", "Категория", "Команда", "Тип", "Приоритет",
	"Статус", "Плановая дата", "Дата завершения", "Длительность (ч)", "Заявитель", "Техник",
	"Просрочена", "Создана",
}

func requestToRow(item dto.RequestDTO) []interface{} {
	var technician, duration, overdue string
	if item.AssignedTo != nil {
		technician = item.AssignedTo.FullName
	}
	if item.DurationHours != nil {
		duration = fmt.Sprintf("%.2f", *item.DurationHours)
	}
	if item.IsOverdue {
		overdue = "да"
	}

	return []interface{}{
		item.RequestNumber, item.Subject, item.Equipment.Name, utils.SafeDeref(item.Equipment.SerialNumber),
		item.EquipmentCategory, item.Team.Name, item.RequestType, item.Priority,
		item.Status, utils.SafeDeref(item.ScheduledDate), utils.SafeDeref(item.CompletedDate), duration,
		item.RequestedBy.FullName, technician, overdue, item.CreatedAt,
	}
}

// buildRequestsWorkbook - первая строка заголовки, дальше заявки в порядке списка.
func buildRequestsWorkbook(list []dto.RequestDTO) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", style); err != nil {
		return nil, err
	}

	for i, item := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := requestToRow(item)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 16)
	_ = f.SetColWidth(exportSheet, "B", "C", 35)
	_ = f.SetColWidth(exportSheet, "D", "I", 18)
	_ = f.SetColWidth(exportSheet, "M", "N", 25)
	return f, nil
}

func (c *RequestController) respondWithXLSX(ctx echo.Context, list []dto.RequestDTO) error {
	f, err := buildRequestsWorkbook(list)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("requests_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
