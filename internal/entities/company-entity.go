package entities

import "equipment-tracker/pkg/types"

type Company struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`

	types.BaseEntity
}
