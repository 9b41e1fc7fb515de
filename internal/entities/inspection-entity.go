package entities

import (
	"time"

	"equipment-tracker/internal/lifecycle"
)

// Inspection неизменяема после создания.
type Inspection struct {
	ID            uint64                      `json:"id"`
	EquipmentID   uint64                      `json:"equipment_id"`
	InspectorID   *uint64                     `json:"inspector_id"`
	WorkerName    *string                     `json:"worker_name"`
	WorkerCompany *string                     `json:"worker_company"`
	ChecklistData []lifecycle.ChecklistAnswer `json:"checklist_data"`
	Result        lifecycle.InspectionResult  `json:"result"`
	PhotoURL      *string                     `json:"photo_url"`
	GPSLat        *float64                    `json:"gps_lat"`
	GPSLng        *float64                    `json:"gps_lng"`
	CreatedAt     time.Time                   `json:"created_at"`

	InspectorName *string `db:"-"`
	EquipmentName string  `db:"-"`
	EquipmentCode string  `db:"-"`
}
