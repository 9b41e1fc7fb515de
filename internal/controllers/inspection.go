package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"equipment-tracker/config"
	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/services"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type InspectionController struct {
	inspectionService services.InspectionServiceInterface
	logger            *zap.Logger
}

func NewInspectionController(inspectionService services.InspectionServiceInterface, logger *zap.Logger) *InspectionController {
	return &InspectionController{inspectionService: inspectionService, logger: logger}
}

func (c *InspectionController) ChecklistSheet(ctx echo.Context) error {
	code := ctx.Param("code")
	res, err := c.inspectionService.ChecklistSheet(ctx.Request().Context(), code)
	if err != nil {
		return utils.ErrorResponse(ctx, lookupError(ctx, code, err), c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Чек-лист получен", http.StatusOK)
}

func newSubmission(code string, session authz.Session, payload dto.SubmitInspectionDTO) *services.Submission {
	sub := services.NewSubmission(code, session, payload.Answers)
	sub.WorkerName = payload.WorkerName
	sub.WorkerCompany = payload.WorkerCompany
	sub.Scanned = payload.Scanned
	if payload.Position != nil {
		sub.Position = *payload.Position
	}
	return sub
}

// SubmitWorker - форма работника подрядчика (без входа, JSON).
func (c *InspectionController) SubmitWorker(ctx echo.Context) error {
	var payload dto.SubmitInspectionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := ctx.Param("code")
	sub := newSubmission(code, authz.GuestSession(), payload)
	return c.submit(ctx, code, sub)
}

// SubmitInspector - форма инспектора: multipart с полем data (JSON) и
// необязательным фото photo, либо обычный JSON без фото.
func (c *InspectionController) SubmitInspector(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrUnauthorized, c.logger)
	}

	var payload dto.SubmitInspectionDTO
	var photoHeader *multipart.FileHeader
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := json.Unmarshal([]byte(ctx.FormValue("data")), &payload); err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат поля data", err, nil), c.logger)
		}
		if err := ctx.Validate(&payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		if fh, err := ctx.FormFile("photo"); err == nil {
			photoHeader = fh
		}
	} else if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := ctx.Param("code")
	sub := newSubmission(code, session, payload)

	if photoHeader != nil {
		file, err := photoHeader.Open()
		if err != nil {
			c.logger.Error("SubmitInspector: не удалось открыть фото", zap.Error(err))
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		defer file.Close()
		if err := utils.ValidateFile(photoHeader, file, config.UploadInspectionPhoto); err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Фото: "+err.Error(), err, nil), c.logger)
		}
		sub.Photo = &services.PhotoUpload{File: file, FileName: photoHeader.Filename}
	}

	return c.submit(ctx, code, sub)
}

func (c *InspectionController) submit(ctx echo.Context, code string, sub *services.Submission) error {
	res, err := c.inspectionService.Submit(ctx.Request().Context(), sub)
	if err != nil {
		c.logger.Warn("SubmitInspection: инспекция не сохранена",
			zap.String("code", code),
			zap.String("state", sub.State().String()),
			zap.Error(err),
		)
		return utils.ErrorResponse(ctx, lookupError(ctx, code, err), c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Инспекция сохранена", http.StatusCreated)
}

func (c *InspectionController) ListByEquipment(ctx echo.Context) error {
	id, err := utils.ParseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.inspectionService.ListByEquipment(ctx.Request().Context(), id, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Журнал инспекций получен", http.StatusOK, total)
}

// MyInspections - инспекции текущего пользователя за день (?date=YYYY-MM-DD, по умолчанию сегодня).
func (c *InspectionController) MyInspections(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil || !session.IsAuthenticated() {
		return utils.ErrorResponse(ctx, apperrors.ErrUnauthorized, c.logger)
	}

	var day time.Time
	if raw := ctx.QueryParam("date"); raw != "" {
		day, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Дата должна быть в формате YYYY-MM-DD", err, nil), c.logger)
		}
	}

	res, err := c.inspectionService.MyInspections(ctx.Request().Context(), session.UserID, day)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Инспекции за день получены", http.StatusOK)
}
