package dto

import "github.com/aarondl/null/v8"

type CreateProjectDTO struct {
	Name        string  `json:"name" validate:"required,max=255"`
	CompanyID   *uint64 `json:"company_id" validate:"omitempty,gt=0"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateProjectDTO struct {
	Name        string      `json:"name" validate:"required,max=255"`
	CompanyID   null.Uint64 `json:"company_id" validate:"omitempty,gt=0"`
	Description null.String `json:"description" validate:"omitempty,max=2000"`
	IsActive    bool        `json:"is_active"`
}

type ProjectDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	CompanyID   *uint64 `json:"company_id"`
	CompanyName *string `json:"company_name,omitempty"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
