package entities

import (
	"time"

	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/pkg/types"
)

type Equipment struct {
	ID                  uint64                 `json:"id"`
	Name                string                 `json:"name"`
	SerialNumber        *string                `json:"serial_number"`
	QRCode              string                 `json:"qr_code"`
	TypeID              uint64                 `json:"type_id"`
	Status              lifecycle.StoredStatus `json:"status"`
	LastMaintenanceDate *time.Time             `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time             `json:"next_maintenance_date"`
	LastKnownLat        *float64               `json:"last_known_gps_lat"`
	LastKnownLng        *float64               `json:"last_known_gps_lng"`
	LastSeenAt          *time.Time             `json:"last_seen_at"`
	LocationDescription *string                `json:"location_description"`
	ProjectID           *uint64                `json:"project_id"`
	CompanyID           *uint64                `json:"company_id"`

	types.BaseEntity

	// Поля из JOIN, не колонки equipment
	TypeName    string  `db:"-"`
	ProjectName *string `db:"-"`
	CompanyName *string `db:"-"`
}
