package entities

import (
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/pkg/types"
)

type EquipmentType struct {
	ID                    uint64                    `json:"id"`
	Name                  string                    `json:"name"`
	MaintenancePeriodDays int                       `json:"maintenance_period_days"`
	ChecklistSchema       []lifecycle.ChecklistItem `json:"checklist_schema"`

	types.BaseEntity
}
