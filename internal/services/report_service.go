package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/types"
)

const inspectionReportSheet = "Инспекции"

var inspectionReportHeaders = []interface{}{
	"№", "Дата", "Время", "Оборудование", "QR-код", "Результат",
	"Инспектор", "Работник", "Фирма", "Замечания", "Широта", "Долгота", "Фото",
}

type ReportServiceInterface interface {
	GetInspections(ctx context.Context, period repositories.InspectionPeriod, filter types.Filter) ([]dto.InspectionDTO, error)
	BuildInspectionWorkbook(ctx context.Context, period repositories.InspectionPeriod, filter types.Filter) (*excelize.File, error)
}

type ReportService struct {
	repo   repositories.InspectionRepositoryInterface
	logger *zap.Logger
}

func NewReportService(repo repositories.InspectionRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{repo: repo, logger: logger}
}

func (s *ReportService) GetInspections(ctx context.Context, period repositories.InspectionPeriod, filter types.Filter) ([]dto.InspectionDTO, error) {
	list, err := s.repo.ListForReport(ctx, period, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InspectionDTO, 0, len(list))
	for _, ins := range list {
		out = append(out, inspectionToDTO(ins))
	}
	return out, nil
}

// failedLabels - пункты с ответом fail через "; ".
func failedLabels(answers []lifecycle.ChecklistAnswer) string {
	labels := make([]string, 0)
	for _, a := range answers {
		if a.Status == lifecycle.AnswerFail {
			labels = append(labels, a.Label)
		}
	}
	return strings.Join(labels, "; ")
}

func inspectionRow(n int, ins entities.Inspection) []interface{} {
	dateFmt, timeFmt := "02.01.2006", "15:04"
	var lat, lng interface{}
	if ins.GPSLat != nil && ins.GPSLng != nil {
		lat, lng = *ins.GPSLat, *ins.GPSLng
	}
	result := "Исправно"
	if ins.Result == lifecycle.ResultFail {
		result = "Неисправно"
	}
	inspector := ""
	if ins.InspectorName != nil {
		inspector = *ins.InspectorName
	}
	worker, company, photo := "", "", ""
	if ins.WorkerName != nil {
		worker = *ins.WorkerName
	}
	if ins.WorkerCompany != nil {
		company = *ins.WorkerCompany
	}
	if ins.PhotoURL != nil {
		photo = *ins.PhotoURL
	}

	return []interface{}{
		n, ins.CreatedAt.Format(dateFmt), ins.CreatedAt.Format(timeFmt),
		ins.EquipmentName, ins.EquipmentCode, result,
		inspector, worker, company, failedLabels(ins.ChecklistData), lat, lng, photo,
	}
}

func (s *ReportService) BuildInspectionWorkbook(ctx context.Context, period repositories.InspectionPeriod, filter types.Filter) (*excelize.File, error) {
	list, err := s.repo.ListForReport(ctx, period, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", inspectionReportSheet); err != nil {
		return nil, fmt.Errorf("ошибка создания листа: %w", err)
	}
	if err := f.SetSheetRow(inspectionReportSheet, "A1", &inspectionReportHeaders); err != nil {
		return nil, fmt.Errorf("ошибка записи заголовка: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(inspectionReportHeaders))
		_ = f.SetCellStyle(inspectionReportSheet, "A1", lastCol+"1", style)
	}

	for i, ins := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := inspectionRow(i+1, ins)
		if err := f.SetSheetRow(inspectionReportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("ошибка записи строки %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(inspectionReportSheet, "D", "D", 30)
	_ = f.SetColWidth(inspectionReportSheet, "E", "E", 15)
	_ = f.SetColWidth(inspectionReportSheet, "G", "I", 25)
	_ = f.SetColWidth(inspectionReportSheet, "J", "J", 50)
	_ = f.SetColWidth(inspectionReportSheet, "M", "M", 40)

	s.logger.Info("Сформирован отчёт по инспекциям", zap.Int("rows", len(list)))
	return f, nil
}
