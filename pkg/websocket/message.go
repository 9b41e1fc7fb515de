package websocket

import "time"

const MessageTypeNotification = "notification"

// Envelope - тип сообщения нужен фронтенду, чтобы выбрать обработчик.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NotificationPayload - запись "колокольчика" администратора.
type NotificationPayload struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	EquipmentID *uint64   `json:"equipment_id,omitempty"`
	Link        string    `json:"link,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
