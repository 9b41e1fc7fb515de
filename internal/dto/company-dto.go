package dto

import "github.com/aarondl/null/v8"

type CreateCompanyDTO struct {
	Name        string  `json:"name" validate:"required,max=255"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
}

type UpdateCompanyDTO struct {
	Name        string      `json:"name" validate:"required,max=255"`
	ContactName null.String `json:"contact_name" validate:"omitempty,max=255"`
	Phone       null.String `json:"phone" validate:"omitempty,max=50"`
}

type CompanyDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
