package controllers

import (
	"net/http"
	"strconv"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/services"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LocationController struct {
	locationService services.LocationServiceInterface
	logger          *zap.Logger
}

func NewLocationController(locationService services.LocationServiceInterface, logger *zap.Logger) *LocationController {
	return &LocationController{locationService: locationService, logger: logger}
}

// LogLocation - отметка позиции с устройства сотрудника. Отказ геолокации
// на устройстве не ошибка: ответ 200 с logged=false.
func (c *LocationController) LogLocation(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrUnauthorized, c.logger)
	}

	var payload dto.LogLocationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := ctx.Param("code")
	res, err := c.locationService.RecordByCode(ctx.Request().Context(), code, payload.Position(), session.FullName)
	if err != nil {
		c.logger.Error("LogLocation: позиция не сохранена", zap.String("code", code), zap.Error(err))
		return utils.ErrorResponse(ctx, lookupError(ctx, code, err), c.logger)
	}

	message := "Позиция сохранена"
	if !res.Logged {
		message = "Координаты недоступны, позиция не сохранена"
	}
	return utils.SuccessResponse(ctx, res, message, http.StatusOK)
}

func (c *LocationController) History(ctx echo.Context) error {
	var limit uint64
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed > uint64(utils.MaxLimit) {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверное значение limit", err, nil), c.logger)
		}
		limit = parsed
	}

	code := ctx.Param("code")
	res, err := c.locationService.History(ctx.Request().Context(), code, limit)
	if err != nil {
		return utils.ErrorResponse(ctx, lookupError(ctx, code, err), c.logger)
	}
	return utils.SuccessResponse(ctx, res, "История перемещений получена", http.StatusOK)
}
