package entities

import "equipment-tracker/pkg/types"

type Project struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	CompanyID   *uint64 `json:"company_id"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`

	types.BaseEntity

	CompanyName *string `db:"-"`
}
