package dto

import "equipment-tracker/internal/lifecycle"

type CreateEquipmentTypeDTO struct {
	Name                  string                    `json:"name" validate:"required,max=255"`
	MaintenancePeriodDays int                       `json:"maintenance_period_days" validate:"omitempty,gt=0,lte=3650"`
	ChecklistSchema       []lifecycle.ChecklistItem `json:"checklist_schema" validate:"omitempty,dive"`
}

type UpdateEquipmentTypeDTO struct {
	Name                  *string                   `json:"name" validate:"omitempty,max=255"`
	MaintenancePeriodDays *int                      `json:"maintenance_period_days" validate:"omitempty,gt=0,lte=3650"`
	ChecklistSchema       []lifecycle.ChecklistItem `json:"checklist_schema" validate:"omitempty,dive"`
}

type EquipmentTypeDTO struct {
	ID                    uint64                    `json:"id"`
	Name                  string                    `json:"name"`
	MaintenancePeriodDays int                       `json:"maintenance_period_days"`
	ChecklistSchema       []lifecycle.ChecklistItem `json:"checklist_schema"`
	CreatedAt             string                    `json:"created_at"`
	UpdatedAt             string                    `json:"updated_at"`
}

type ShortEquipmentTypeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
