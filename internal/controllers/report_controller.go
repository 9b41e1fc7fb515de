package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"equipment-tracker/internal/repositories"
	"equipment-tracker/internal/services"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// parsePeriod: date_from/date_to в формате YYYY-MM-DD, date_to включительно.
func parsePeriod(ctx echo.Context) (repositories.InspectionPeriod, error) {
	var period repositories.InspectionPeriod
	if df := ctx.QueryParam("date_from"); df != "" {
		t, err := time.ParseInLocation("2006-01-02", df, time.Local)
		if err != nil {
			return period, err
		}
		period.From = t
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		t, err := time.ParseInLocation("2006-01-02", dt, time.Local)
		if err != nil {
			return period, err
		}
		period.To = t.AddDate(0, 0, 1)
	}
	return period, nil
}

func (c *ReportController) ExportInspections(ctx echo.Context) error {
	period, err := parsePeriod(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Дата должна быть в формате YYYY-MM-DD", err, nil), c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	c.logger.Debug("Запрос отчёта", zap.Any("filter", filter), zap.String("format", format))

	if format != "xlsx" {
		data, err := c.reportService.GetInspections(ctx.Request().Context(), period, filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, data, "Отчёт сформирован", http.StatusOK)
	}

	f, err := c.reportService.BuildInspectionWorkbook(ctx.Request().Context(), period, filter)
	if err != nil {
		c.logger.Error("ExportInspections: не удалось сформировать xlsx", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("inspections_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
