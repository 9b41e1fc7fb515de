package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "equipment-tracker/pkg/errors"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("верфь-2025")
	require.NoError(t, err)
	assert.NotEqual(t, "верфь-2025", hash)

	assert.NoError(t, ComparePasswords(hash, "верфь-2025"))
	assert.ErrorIs(t, ComparePasswords(hash, "верфь-2024"), apperrors.ErrInvalidCredentials)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"password"}, vErr.Fields)
}

func TestComparePasswords_BrokenHash(t *testing.T) {
	err := ComparePasswords("not-a-bcrypt-hash", "whatever1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
