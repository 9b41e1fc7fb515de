package services

import (
	"time"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
)

const dateTimeLayout = "2006-01-02 15:04:05"

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// equipmentToDTO вычисляет отображаемый статус на дату today.
func equipmentToDTO(e entities.Equipment, today time.Time) dto.EquipmentDTO {
	out := dto.EquipmentDTO{
		ID:                  e.ID,
		Name:                e.Name,
		SerialNumber:        e.SerialNumber,
		QRCode:              e.QRCode,
		Type:                dto.ShortEquipmentTypeDTO{ID: e.TypeID, Name: e.TypeName},
		Status:              e.Status,
		DerivedStatus:       lifecycle.DeriveStatus(today, e.NextMaintenanceDate, e.Status),
		LastMaintenanceDate: e.LastMaintenanceDate,
		NextMaintenanceDate: e.NextMaintenanceDate,
		LastSeenAt:          e.LastSeenAt,
		LocationDescription: e.LocationDescription,
		ProjectID:           e.ProjectID,
		ProjectName:         e.ProjectName,
		CompanyID:           e.CompanyID,
		CompanyName:         e.CompanyName,
		CreatedAt:           formatTime(e.CreatedAt),
		UpdatedAt:           formatTime(e.UpdatedAt),
	}
	if e.NextMaintenanceDate != nil {
		days := lifecycle.DaysUntil(today, *e.NextMaintenanceDate)
		out.DaysLeft = &days
	}
	if e.LastKnownLat != nil && e.LastKnownLng != nil {
		out.LastKnownPosition = &lifecycle.Coordinate{Lat: *e.LastKnownLat, Lng: *e.LastKnownLng}
	}
	return out
}

func shortEquipment(e entities.Equipment) dto.ShortEquipmentDTO {
	return dto.ShortEquipmentDTO{ID: e.ID, Name: e.Name, QRCode: e.QRCode}
}

func inspectionToDTO(ins entities.Inspection) dto.InspectionDTO {
	out := dto.InspectionDTO{
		ID:            ins.ID,
		Equipment:     dto.ShortEquipmentDTO{ID: ins.EquipmentID, Name: ins.EquipmentName, QRCode: ins.EquipmentCode},
		InspectorID:   ins.InspectorID,
		InspectorName: ins.InspectorName,
		WorkerName:    ins.WorkerName,
		WorkerCompany: ins.WorkerCompany,
		Answers:       ins.ChecklistData,
		Result:        ins.Result,
		PhotoURL:      ins.PhotoURL,
		CreatedAt:     ins.CreatedAt,
	}
	if ins.GPSLat != nil && ins.GPSLng != nil {
		out.Position = &lifecycle.Coordinate{Lat: *ins.GPSLat, Lng: *ins.GPSLng}
	}
	return out
}

func equipmentTypeToDTO(t entities.EquipmentType) dto.EquipmentTypeDTO {
	schema := t.ChecklistSchema
	if schema == nil {
		schema = []lifecycle.ChecklistItem{}
	}
	return dto.EquipmentTypeDTO{
		ID:                    t.ID,
		Name:                  t.Name,
		MaintenancePeriodDays: t.MaintenancePeriodDays,
		ChecklistSchema:       schema,
		CreatedAt:             formatTime(t.CreatedAt),
		UpdatedAt:             formatTime(t.UpdatedAt),
	}
}

func projectToDTO(p entities.Project) dto.ProjectDTO {
	return dto.ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		CompanyID:   p.CompanyID,
		CompanyName: p.CompanyName,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func companyToDTO(c entities.Company) dto.CompanyDTO {
	return dto.CompanyDTO{
		ID:          c.ID,
		Name:        c.Name,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}
