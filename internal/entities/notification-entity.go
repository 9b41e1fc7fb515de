package entities

import "time"

type NotificationType string

const (
	NotificationDanger  NotificationType = "danger"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

type Notification struct {
	ID          uint64           `json:"id"`
	EquipmentID *uint64          `json:"equipment_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`

	EquipmentName *string `db:"-"`
	EquipmentCode *string `db:"-"`
}
