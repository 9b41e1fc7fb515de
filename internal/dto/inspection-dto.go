package dto

import (
	"time"

	"equipment-tracker/internal/lifecycle"
)

// SubmitInspectionDTO - форма работника (гость) и форма инспектора.
type SubmitInspectionDTO struct {
	Answers       []lifecycle.ChecklistAnswer `json:"answers" validate:"required,min=1,dive"`
	WorkerName    string                      `json:"worker_name" validate:"omitempty,max=255"`
	WorkerCompany string                      `json:"worker_company" validate:"omitempty,max=255"`
	// Scanned - форма открыта сканированием QR, можно запрашивать геолокацию.
	Scanned  bool                        `json:"scanned"`
	Position *lifecycle.ReportedPosition `json:"position"`
}

// ChecklistSheetDTO - пустой лист ответов для формы.
type ChecklistSheetDTO struct {
	Equipment ShortEquipmentDTO           `json:"equipment"`
	TypeName  string                      `json:"type_name"`
	Answers   []lifecycle.ChecklistAnswer `json:"answers"`
}

type InspectionDTO struct {
	ID            uint64                      `json:"id"`
	Equipment     ShortEquipmentDTO           `json:"equipment"`
	InspectorID   *uint64                     `json:"inspector_id"`
	InspectorName *string                     `json:"inspector_name,omitempty"`
	WorkerName    *string                     `json:"worker_name"`
	WorkerCompany *string                     `json:"worker_company"`
	Answers       []lifecycle.ChecklistAnswer `json:"checklist_data"`
	Result        lifecycle.InspectionResult  `json:"result"`
	PhotoURL      *string                     `json:"photo_url"`
	Position      *lifecycle.Coordinate       `json:"position"`
	CreatedAt     time.Time                   `json:"created_at"`
}

// SubmissionResultDTO - ответ на отправку: запись и новый статус оборудования.
type SubmissionResultDTO struct {
	Inspection      InspectionDTO           `json:"inspection"`
	EquipmentStatus lifecycle.StoredStatus  `json:"equipment_status"`
	DerivedStatus   lifecycle.DerivedStatus `json:"derived_status"`
	PositionLogged  bool                    `json:"position_logged"`
}
