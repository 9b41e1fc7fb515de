package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/config"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*entities.Profile, authz.Role, error)
	ResolveSession(ctx context.Context, userID uint64) (authz.Session, error)
	GetProfile(ctx context.Context, userID uint64) (*entities.Profile, error)
	InvalidateSession(ctx context.Context, userID uint64)
}

type AuthService struct {
	profileRepo repositories.ProfileRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	logger      *zap.Logger
	cfg         *config.AuthConfig
}

func NewAuthService(
	profileRepo repositories.ProfileRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		cfg:         cfg,
	}
}

// cachedSession - то, что лежит в redis под session:<id>.
type cachedSession struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func sessionKey(userID uint64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.Profile, authz.Role, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, authz.RoleGuest, apperrors.ErrInvalidCredentials
		}
		return nil, authz.RoleGuest, err
	}
	if err := s.checkLockout(ctx, profile.ID); err != nil {
		return nil, authz.RoleGuest, err
	}
	if err := utils.ComparePasswords(profile.PasswordHash, password); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.logger.Error("Некорректный хеш пароля в профиле", zap.Uint64("userID", profile.ID), zap.Error(err))
		}
		s.handleFailedLoginAttempt(ctx, profile.ID)
		return nil, authz.RoleGuest, apperrors.ErrInvalidCredentials
	}

	role, err := authz.ParseRole(profile.Role)
	if err != nil {
		s.logger.Error("Профиль с неизвестной ролью", zap.Uint64("userID", profile.ID), zap.String("role", profile.Role))
		return nil, authz.RoleGuest, apperrors.ErrProfileNotFound
	}

	s.resetLoginAttempts(ctx, profile.ID)
	s.storeSession(ctx, profile.ID, cachedSession{FullName: profile.FullName, Role: role.String()})
	s.logger.Info("Успешный вход", zap.Uint64("userID", profile.ID), zap.String("role", role.String()))
	return profile, role, nil
}

// ResolveSession: сначала кэш ролей, затем profiles. Недоступный redis не мешает входу.
func (s *AuthService) ResolveSession(ctx context.Context, userID uint64) (authz.Session, error) {
	raw, err := s.cacheRepo.Get(ctx, sessionKey(userID))
	if err == nil {
		var cached cachedSession
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			if role, roleErr := authz.ParseRole(cached.Role); roleErr == nil {
				return authz.Session{UserID: userID, FullName: cached.FullName, Role: role}, nil
			}
		}
		s.logger.Warn("Повреждённая запись кэша сессии", zap.Uint64("userID", userID))
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("Кэш ролей недоступен", zap.Uint64("userID", userID), zap.Error(err))
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return authz.GuestSession(), apperrors.ErrProfileNotFound
		}
		return authz.GuestSession(), err
	}
	role, err := authz.ParseRole(profile.Role)
	if err != nil {
		return authz.GuestSession(), apperrors.ErrProfileNotFound
	}

	s.storeSession(ctx, userID, cachedSession{FullName: profile.FullName, Role: role.String()})
	return authz.Session{UserID: userID, FullName: profile.FullName, Role: role}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint64) (*entities.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetProfile: профиль не найден", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrProfileNotFound
	}
	return profile, nil
}

// InvalidateSession вызывается при смене роли или удалении профиля.
func (s *AuthService) InvalidateSession(ctx context.Context, userID uint64) {
	if err := s.cacheRepo.Del(ctx, sessionKey(userID)); err != nil {
		s.logger.Warn("Не удалось удалить сессию из кэша", zap.Uint64("userID", userID), zap.Error(err))
	}
}

func (s *AuthService) storeSession(ctx context.Context, userID uint64, session cachedSession) {
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.cacheRepo.Set(ctx, sessionKey(userID), string(raw), s.cfg.RoleCacheTTL); err != nil {
		s.logger.Warn("Не удалось сохранить сессию в кэш", zap.Uint64("userID", userID), zap.Error(err))
	}
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return apperrors.ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("Не удалось задать срок счётчика попыток входа", zap.Uint64("userID", userID), zap.Error(err))
		}
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf("lockout:%d", userID)
		// счётчик сбрасывается только после установленной блокировки
		if err := s.cacheRepo.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("Не удалось заблокировать аккаунт", zap.Uint64("userID", userID), zap.Error(err))
			return
		}
		if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
			s.logger.Warn("Не удалось сбросить счётчик попыток входа", zap.Uint64("userID", userID), zap.Error(err))
		}
		s.logger.Warn("Аккаунт временно заблокирован", zap.Uint64("userID", userID))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	if err := s.cacheRepo.Del(ctx, attemptsKey, lockoutKey); err != nil {
		s.logger.Warn("Не удалось сбросить счётчик попыток входа", zap.Uint64("userID", userID), zap.Error(err))
	}
}
