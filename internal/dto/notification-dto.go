package dto

import "time"

type NotificationDTO struct {
	ID            uint64    `json:"id"`
	EquipmentID   *uint64   `json:"equipment_id"`
	EquipmentName *string   `json:"equipment_name,omitempty"`
	EquipmentCode *string   `json:"equipment_code,omitempty"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}
