package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"equipment-tracker/internal/authz"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/utils"
)

// lookupError добавляет к 404 по QR-коду подсказку, куда идти дальше:
// администратору - в форму создания с этим кодом, остальным - к сканеру.
func lookupError(ctx echo.Context, code string, err error) error {
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	recovery := "/scanner"
	if session, sErr := utils.GetSessionFromCtx(ctx.Request().Context()); sErr == nil && session.Role == authz.RoleAdmin {
		recovery = "/admin/equipment/new?code=" + url.QueryEscape(code)
	}
	return apperrors.NewHttpError(
		http.StatusNotFound,
		"Оборудование с таким QR-кодом не найдено",
		nil,
		map[string]interface{}{"code": code},
	).WithDetails(map[string]interface{}{"code": code, "recovery": recovery})
}

func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil)
	}
	return ctx.Validate(payload)
}
