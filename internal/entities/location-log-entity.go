package entities

import "time"

type LocationLog struct {
	ID          uint64    `json:"id"`
	EquipmentID uint64    `json:"equipment_id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	RecordedBy  string    `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
