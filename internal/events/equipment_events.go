package events

import (
	"time"

	"equipment-tracker/internal/lifecycle"
)

const (
	InspectionSubmitted = "inspection.submitted"
	EquipmentLocked     = "equipment.locked"
)

// InspectionSubmittedEvent публикуется после сохранения инспекции.
type InspectionSubmittedEvent struct {
	InspectionID  uint64
	EquipmentID   uint64
	EquipmentName string
	EquipmentCode string
	Result        lifecycle.InspectionResult
	// Inspector - ФИО инспектора либо "имя (фирма)" работника.
	Inspector   string
	SubmittedAt time.Time
}

func (e InspectionSubmittedEvent) Name() string {
	return InspectionSubmitted
}

// EquipmentLockedEvent - администратор вручную перевёл оборудование в maintenance_required.
type EquipmentLockedEvent struct {
	EquipmentID   uint64
	EquipmentName string
	EquipmentCode string
	Reason        string
	ActorID       uint64
}

func (e EquipmentLockedEvent) Name() string {
	return EquipmentLocked
}
