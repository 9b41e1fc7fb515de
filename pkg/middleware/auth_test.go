package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equipment-tracker/internal/authz"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/service"
	"equipment-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeResolver struct {
	sessions map[uint64]authz.Session
}

func (f fakeResolver) ResolveSession(_ context.Context, userID uint64) (authz.Session, error) {
	s, ok := f.sessions[userID]
	if !ok {
		return authz.GuestSession(), apperrors.ErrProfileNotFound
	}
	return s, nil
}

func newTestMiddleware(t *testing.T) (*AuthMiddleware, service.JWTService) {
	t.Helper()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour, zap.NewNop())
	resolver := fakeResolver{sessions: map[uint64]authz.Session{
		1: {UserID: 1, FullName: "Admin", Role: authz.RoleAdmin},
		2: {UserID: 2, FullName: "Inspector", Role: authz.RoleInspector},
	}}
	return NewAuthMiddleware(jwtSvc, resolver, zap.NewNop()), jwtSvc
}

func serve(handler echo.HandlerFunc, token string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func sessionEcho(c echo.Context) error {
	s, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, s.Role.String())
}

func TestAuth_RejectsMissingHeader(t *testing.T) {
	m, _ := newTestMiddleware(t)
	rec := serve(m.Auth(sessionEcho), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectsRefreshToken(t *testing.T) {
	m, jwtSvc := newTestMiddleware(t)
	_, refresh, err := jwtSvc.GenerateTokens(1)
	require.NoError(t, err)

	rec := serve(m.Auth(sessionEcho), refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_AttachesSession(t *testing.T) {
	m, jwtSvc := newTestMiddleware(t)
	access, _, err := jwtSvc.GenerateTokens(2)
	require.NoError(t, err)

	rec := serve(m.Auth(sessionEcho), access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inspector", rec.Body.String())
}

func TestOptionalAuth_FallsBackToGuest(t *testing.T) {
	m, _ := newTestMiddleware(t)

	rec := serve(m.OptionalAuth(sessionEcho), "")
	assert.Equal(t, "guest", rec.Body.String())

	rec = serve(m.OptionalAuth(sessionEcho), "garbage")
	assert.Equal(t, "guest", rec.Body.String())
}

func TestRequireArea(t *testing.T) {
	m, jwtSvc := newTestMiddleware(t)
	adminToken, _, _ := jwtSvc.GenerateTokens(1)
	inspectorToken, _, _ := jwtSvc.GenerateTokens(2)

	adminOnly := m.OptionalAuth(m.RequireArea(authz.AreaAdmin)(sessionEcho))

	assert.Equal(t, http.StatusOK, serve(adminOnly, adminToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(adminOnly, inspectorToken).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(adminOnly, "").Code)
}
