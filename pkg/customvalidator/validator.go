package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var qrCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{1,63}$`)

// RegisterCustomValidations регистрирует кастомные правила в переданном валидаторе.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)
	if err := v.RegisterValidation("qr_code", isQRCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("answer_status", isAnswerStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("stored_status", isStoredStatus); err != nil {
		return err
	}
	return nil
}

// isQRCode - пустое значение допустимо, код тогда сгенерирует сервис.
func isQRCode(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || qrCodeRegex.MatchString(s)
}

func isAnswerStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "pass", "fail":
		return true
	}
	return false
}

func isStoredStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "maintenance_required":
		return true
	}
	return false
}
