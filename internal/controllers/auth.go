package controllers

import (
	"net/http"
	"time"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/services"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/service"
	"equipment-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const refreshCookieName = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, jwtSvc: jwtSvc, logger: logger}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Warn("Login: неверные данные", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	profile, role, err := ctrl.authService.Login(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("email", payload.Email), zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return ctrl.generateTokensAndRespond(c, profile.ID, &dto.ProfileDTO{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      role.String(),
		CompanyID: profile.CompanyID,
	}, role, "Авторизация прошла успешно")
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}

// RefreshToken принимает refresh-токен из cookie или из тела запроса.
func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var tokenString string
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		tokenString = cookie.Value
	} else {
		var payload dto.RefreshTokenDTO
		if err := bindAndValidate(c, &payload); err != nil {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
		}
		tokenString = payload.RefreshToken
	}

	claims, err := ctrl.jwtSvc.ValidateToken(tokenString)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if !claims.IsRefreshToken {
		return utils.ErrorResponse(c, apperrors.ErrTokenIsNotRefresh, ctrl.logger)
	}

	session, err := ctrl.authService.ResolveSession(c.Request().Context(), claims.UserID)
	if err != nil {
		ctrl.logger.Warn("RefreshToken: профиль недоступен", zap.Uint64("userID", claims.UserID), zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return ctrl.generateTokensAndRespond(c, claims.UserID, nil, session.Role, "Токены успешно обновлены")
}

func (ctrl *AuthController) Me(c echo.Context) error {
	session, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil || !session.IsAuthenticated() {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}
	return utils.SuccessResponse(c, dto.SessionDTO{
		UserID:   session.UserID,
		FullName: session.FullName,
		Role:     session.Role.String(),
		HomePath: authz.HomePath(session.Role),
	}, "Сессия получена", http.StatusOK)
}

func (ctrl *AuthController) generateTokensAndRespond(c echo.Context, userID uint64, profile *dto.ProfileDTO, role authz.Role, message string) error {
	accessToken, refreshToken, err := ctrl.jwtSvc.GenerateTokens(userID)
	if err != nil {
		ctrl.logger.Error("Не удалось сгенерировать токены", zap.Error(err), zap.Uint64("userID", userID))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	response := dto.AuthResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         role.String(),
		HomePath:     authz.HomePath(role),
		User:         profile,
	}
	return utils.SuccessResponse(c, response, message, http.StatusOK)
}
