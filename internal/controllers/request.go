package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	queryService   services.RequestQueryServiceInterface
	logService     services.RequestLogServiceInterface
	logger         *zap.Logger
}

func NewRequestController(
	requestService services.RequestServiceInterface,
	queryService services.RequestQueryServiceInterface,
	logService services.RequestLogServiceInterface,
	logger *zap.Logger,
) *RequestController {
	return &RequestController{
		requestService: requestService,
		queryService:   queryService,
		logService:     logService,
		logger:         logger,
	}
}

func parseIDParam(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrBadRequest
	}
	return id, nil
}

func (c *RequestController) CreateRequest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateRequest: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат данных в теле запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.CreateRequest(reqCtx, payload, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Заявка успешно создана", http.StatusCreated)
}

// GetRequests отдает список; при ?format=xlsx - файл выгрузки с теми же фильтрами.
func (c *RequestController) GetRequests(ctx echo.Context) error {
	filter, err := utils.ParseRequestFilterFromQuery(ctx.Request().URL.Query())
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат фильтра"), c.logger)
	}
	c.logger.Debug("Запрос списка заявок", zap.Any("filter", filter))

	list, total, err := c.queryService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.EqualFold(ctx.QueryParam("format"), "xlsx") {
		return c.respondWithXLSX(ctx, list)
	}

	return utils.SuccessResponse(ctx, list, "Список заявок успешно получен", http.StatusOK, total)
}

func (c *RequestController) GetKanban(ctx echo.Context) error {
	filter, err := utils.ParseRequestFilterFromQuery(ctx.Request().URL.Query())
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат фильтра"), c.logger)
	}

	board, err := c.queryService.GetKanban(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, board, "Канбан успешно получен", http.StatusOK)
}

func (c *RequestController) GetStats(ctx echo.Context) error {
	filter, err := utils.ParseStatsFilterFromQuery(ctx.Request().URL.Query())
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат фильтра"), c.logger)
	}

	stats, err := c.queryService.GetStats(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Статистика успешно получена", http.StatusOK)
}

func (c *RequestController) FindRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат ID заявки"), c.logger)
	}

	res, err := c.requestService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно найдена", http.StatusOK)
}

func (c *RequestController) UpdateStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат ID заявки"), c.logger)
	}
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат данных в теле запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.UpdateStatus(reqCtx, id, payload, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус заявки обновлен", http.StatusOK)
}

func (c *RequestController) AssignTechnician(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат ID заявки"), c.logger)
	}
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignTechnicianDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат данных в теле запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.AssignTechnician(reqCtx, id, payload.TechnicianID, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Техник назначен", http.StatusOK)
}

func (c *RequestController) GetRequestLogs(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Неверный формат ID заявки"), c.logger)
	}

	res, err := c.logService.GetRequestLogs(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "История заявки получена", http.StatusOK, uint64(len(res)))
}
