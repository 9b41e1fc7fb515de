package errors

import (
	"fmt"
	"strings"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrTooManyAttempts    = fmt.Errorf("слишком много попыток входа")
	ErrProfileNotFound    = fmt.Errorf("профиль пользователя не найден")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrSessionNotFoundInContext = fmt.Errorf("сессия не найдена в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrConflict   = fmt.Errorf("запись уже существует")

	// Геолокация. Ни одна из этих ошибок не прерывает рабочий процесс.
	ErrPositionUnavailable = fmt.Errorf("координаты недоступны")
	ErrPermissionDenied    = fmt.Errorf("%w: доступ к геолокации запрещён", ErrPositionUnavailable)
	ErrPositionTimeout     = fmt.Errorf("%w: истекло время ожидания координат", ErrPositionUnavailable)
	ErrPositionUnsupported = fmt.Errorf("%w: устройство не поддерживает геолокацию", ErrPositionUnavailable)

	// Чек-лист
	ErrIncompleteChecklist = NewValidationError("incomplete checklist")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError - ошибка до любого сетевого эффекта, полностью восстановимая.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// Is позволяет сравнивать ошибки по сообщению, поля не учитываются.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Message == e.Message
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// WithDetails добавляет тело ответа (например, подсказку для восстановления).
func (e *HttpError) WithDetails(details interface{}) *HttpError {
	e.Details = details
	return e
}
