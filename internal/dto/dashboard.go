package dto

type DashboardCountsDTO struct {
	Total   uint64 `json:"total"`
	Active  uint64 `json:"active"`
	Warning uint64 `json:"warning"`
	Faulty  uint64 `json:"faulty"`
	Overdue uint64 `json:"overdue"`
}

// DashboardDTO - сводка администратора: по три первых элемента каждой группы.
type DashboardDTO struct {
	Counts              DashboardCountsDTO `json:"counts"`
	Faulty              []EquipmentDTO     `json:"faulty"`
	Overdue             []EquipmentDTO     `json:"overdue"`
	Warning             []EquipmentDTO     `json:"warning"`
	UnreadNotifications uint64             `json:"unread_notifications"`
	LatestNotifications []NotificationDTO  `json:"latest_notifications"`
}
