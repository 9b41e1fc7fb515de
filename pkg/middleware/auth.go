package middleware

import (
	"context"
	"strings"

	"equipment-tracker/internal/authz"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/service"
	"equipment-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionResolver превращает ID из токена в сессию с ролью (профиль + кэш ролей).
type SessionResolver interface {
	ResolveSession(ctx context.Context, userID uint64) (authz.Session, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	sessions   SessionResolver
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, sessions SessionResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		sessions:   sessions,
		logger:     logger,
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}

func (m *AuthMiddleware) authenticate(c echo.Context, tokenString string) (authz.Session, error) {
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return authz.GuestSession(), err
	}
	if claims.IsRefreshToken {
		return authz.GuestSession(), apperrors.ErrTokenIsNotAccess
	}
	return m.sessions.ResolveSession(c.Request().Context(), claims.UserID)
}

func (m *AuthMiddleware) attach(c echo.Context, session authz.Session) {
	ctx := utils.WithSession(c.Request().Context(), session)
	c.SetRequest(c.Request().WithContext(ctx))
}

// Auth пропускает только запросы с валидным access-токеном и существующим профилем.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			m.logger.Warn("AuthMiddleware: некорректный заголовок Authorization", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		session, err := m.authenticate(c, tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка аутентификации", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		m.attach(c, session)
		m.logger.Debug("AuthMiddleware: пользователь аутентифицирован",
			zap.Uint64("userID", session.UserID),
			zap.String("role", session.Role.String()),
		)
		return next(c)
	}
}

// OptionalAuth для публичных маршрутов: без токена или с плохим токеном запрос идёт как гость.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session := authz.GuestSession()
		if tokenString, err := bearerToken(c); err == nil {
			resolved, authErr := m.authenticate(c, tokenString)
			if authErr != nil {
				m.logger.Debug("OptionalAuth: токен отклонён, продолжаем как гость", zap.Error(authErr))
			} else {
				session = resolved
			}
		}
		m.attach(c, session)
		return next(c)
	}
}

// RequireArea проверяет роль сессии, выставленной Auth/OptionalAuth.
func (m *AuthMiddleware) RequireArea(area authz.Area) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := utils.GetSessionFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			if !authz.Allows(session.Role, area) {
				m.logger.Warn("RequireArea: доступ запрещён",
					zap.Uint64("userID", session.UserID),
					zap.String("role", session.Role.String()),
					zap.String("area", area.String()),
				)
				if !session.IsAuthenticated() {
					return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
				}
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			return next(c)
		}
	}
}
