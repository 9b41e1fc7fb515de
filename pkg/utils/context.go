// pkg/utils/context.go

package utils

import (
	"context"

	"equipment-tracker/internal/authz"
	"equipment-tracker/pkg/contextkeys"
	apperrors "equipment-tracker/pkg/errors"
)

func WithSession(ctx context.Context, session authz.Session) context.Context {
	ctx = context.WithValue(ctx, contextkeys.SessionKey, session)
	return context.WithValue(ctx, contextkeys.UserIDKey, session.UserID)
}

// GetSessionFromCtx возвращает гостевую сессию вместе с ошибкой, если middleware не отработал.
func GetSessionFromCtx(ctx context.Context) (authz.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(authz.Session)
	if !ok {
		return authz.GuestSession(), apperrors.ErrSessionNotFoundInContext
	}
	return session, nil
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}
