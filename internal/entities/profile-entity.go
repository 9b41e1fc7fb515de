package entities

import "equipment-tracker/pkg/types"

// Profile - учётная запись сотрудника. Role хранится строкой: admin | inspector.
type Profile struct {
	ID           uint64  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	CompanyID    *uint64 `json:"company_id"`

	types.BaseEntity
}
