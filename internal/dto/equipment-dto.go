package dto

import (
	"time"

	"equipment-tracker/internal/lifecycle"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name         string  `json:"name" validate:"required,max=255"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=100"`
	// Пустой код - сгенерировать EQ-XXXXXX.
	QRCode              string  `json:"qr_code" validate:"qr_code"`
	TypeID              uint64  `json:"type_id" validate:"required,gt=0"`
	LocationDescription *string `json:"location_description" validate:"omitempty,max=255"`
	ProjectID           *uint64 `json:"project_id" validate:"omitempty,gt=0"`
	CompanyID           *uint64 `json:"company_id" validate:"omitempty,gt=0"`
}

// UpdateEquipmentDTO - PUT: nullable-поля заменяются целиком, null очищает связь.
type UpdateEquipmentDTO struct {
	Name                string      `json:"name" validate:"required,max=255"`
	SerialNumber        null.String `json:"serial_number" validate:"omitempty,max=100"`
	QRCode              string      `json:"qr_code" validate:"required,qr_code"`
	TypeID              uint64      `json:"type_id" validate:"required,gt=0"`
	LocationDescription null.String `json:"location_description" validate:"omitempty,max=255"`
	ProjectID           null.Uint64 `json:"project_id" validate:"omitempty,gt=0"`
	CompanyID           null.Uint64 `json:"company_id" validate:"omitempty,gt=0"`
	NextMaintenanceDate *time.Time  `json:"next_maintenance_date"`
}

type OverrideStatusDTO struct {
	Status lifecycle.StoredStatus `json:"status" validate:"required,stored_status"`
	Reason string                 `json:"reason" validate:"omitempty,max=500"`
}

type EquipmentDTO struct {
	ID                  uint64                  `json:"id"`
	Name                string                  `json:"name"`
	SerialNumber        *string                 `json:"serial_number"`
	QRCode              string                  `json:"qr_code"`
	Type                ShortEquipmentTypeDTO   `json:"type"`
	Status              lifecycle.StoredStatus  `json:"status"`
	DerivedStatus       lifecycle.DerivedStatus `json:"derived_status"`
	DaysLeft            *int                    `json:"days_left"`
	LastMaintenanceDate *time.Time              `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time              `json:"next_maintenance_date"`
	LastKnownPosition   *lifecycle.Coordinate   `json:"last_known_position"`
	LastSeenAt          *time.Time              `json:"last_seen_at"`
	LocationDescription *string                 `json:"location_description"`
	ProjectID           *uint64                 `json:"project_id"`
	ProjectName         *string                 `json:"project_name,omitempty"`
	CompanyID           *uint64                 `json:"company_id"`
	CompanyName         *string                 `json:"company_name,omitempty"`
	CreatedAt           string                  `json:"created_at"`
	UpdatedAt           string                  `json:"updated_at"`
}

type ShortEquipmentDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	QRCode string `json:"qr_code"`
}

// ImportResultDTO - итог загрузки xlsx.
type ImportResultDTO struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
