package dto

import (
	"time"

	"equipment-tracker/internal/lifecycle"
)

// LogLocationDTO - либо координата, либо код ошибки геолокации браузера.
type LogLocationDTO struct {
	Lat   *float64 `json:"lat" validate:"required_without=Error,omitempty,min=-90,max=90"`
	Lng   *float64 `json:"lng" validate:"required_without=Error,omitempty,min=-180,max=180"`
	Error string   `json:"error" validate:"omitempty,oneof=permission_denied timeout unsupported"`
}

func (d LogLocationDTO) Position() lifecycle.ReportedPosition {
	if d.Error != "" || d.Lat == nil || d.Lng == nil {
		return lifecycle.ReportedPosition{Error: d.Error}
	}
	return lifecycle.ReportedPosition{Coordinate: &lifecycle.Coordinate{Lat: *d.Lat, Lng: *d.Lng}}
}

type LocationLogDTO struct {
	ID         uint64    `json:"id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedBy string    `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
	IsCurrent  bool      `json:"is_current"`
}

type LocationHistoryDTO struct {
	Equipment ShortEquipmentDTO `json:"equipment"`
	Entries   []LocationLogDTO  `json:"entries"`
}

// LocationResultDTO - nil Position значит, что координата не получена.
type LocationResultDTO struct {
	Position *lifecycle.Coordinate `json:"position"`
	Logged   bool                  `json:"logged"`
}
