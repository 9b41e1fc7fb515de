package utils

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "equipment-tracker/pkg/errors"
)

const (
	MinPasswordLength = 8
	passwordCost      = 12
)

// HashPassword - bcrypt-хеш для profiles.password_hash.
func HashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("пароль короче %d символов", MinPasswordLength), "password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(hash), nil
}

// ComparePasswords возвращает ErrInvalidCredentials при несовпадении.
// Повреждённый хеш в БД - отдельная ошибка, её нужно видеть в логах.
func ComparePasswords(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrInvalidCredentials
	}
	return fmt.Errorf("проверка пароля: %w", err)
}
