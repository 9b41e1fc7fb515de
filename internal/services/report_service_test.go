package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/types"
	"equipment-tracker/pkg/utils"
)

func reportFixture() *fakeInspectionRepo {
	lat, lng := 59.9, 30.3
	return &fakeInspectionRepo{items: []entities.Inspection{
		{
			ID: 1, EquipmentID: 1, EquipmentName: "Кран", EquipmentCode: "EQ-CRANE1",
			InspectorName: utils.ToPtr("Иван Петров"),
			Result:        lifecycle.ResultFail,
			ChecklistData: []lifecycle.ChecklistAnswer{
				{Label: "Трос", Status: lifecycle.AnswerFail},
				{Label: "Тормоз", Status: lifecycle.AnswerPass},
				{Label: "Крюк", Status: lifecycle.AnswerFail},
			},
			GPSLat: &lat, GPSLng: &lng,
			CreatedAt: time.Date(2025, time.March, 10, 14, 5, 0, 0, time.UTC),
		},
		{
			ID: 2, EquipmentID: 2, EquipmentName: "Сварка", EquipmentCode: "EQ-WELD01",
			WorkerName: utils.ToPtr("Алексей"), WorkerCompany: utils.ToPtr("МорМонтаж"),
			Result:        lifecycle.ResultPass,
			ChecklistData: []lifecycle.ChecklistAnswer{{Label: "Кабель", Status: lifecycle.AnswerPass}},
			PhotoURL:      utils.ToPtr("/uploads/inspections/EQ-WELD01/a.jpg"),
			CreatedAt:     time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC),
		},
	}}
}

func TestFailedLabels(t *testing.T) {
	assert.Equal(t, "", failedLabels(nil))
	assert.Equal(t, "Трос; Крюк", failedLabels([]lifecycle.ChecklistAnswer{
		{Label: "Трос", Status: lifecycle.AnswerFail},
		{Label: "Тормоз", Status: lifecycle.AnswerPass},
		{Label: "Крюк", Status: lifecycle.AnswerFail},
	}))
}

func TestBuildInspectionWorkbook(t *testing.T) {
	repo := reportFixture()
	svc := NewReportService(repo, zap.NewNop())
	period := repositories.InspectionPeriod{
		From: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
	}

	f, err := svc.BuildInspectionWorkbook(context.Background(), period, types.Filter{})
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, period, repo.period)

	rows, err := f.GetRows(inspectionReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "№", rows[0][0])
	assert.Equal(t, "Фото", rows[0][12])

	assert.Equal(t, []string{"1", "10.03.2025", "14:05", "Кран", "EQ-CRANE1", "Неисправно", "Иван Петров"}, rows[1][:7])
	assert.Equal(t, "Трос; Крюк", rows[1][9])
	assert.Equal(t, "59.9", rows[1][10])

	assert.Equal(t, "Исправно", rows[2][5])
	assert.Equal(t, "Алексей", rows[2][7])
	assert.Equal(t, "МорМонтаж", rows[2][8])
	assert.Equal(t, "/uploads/inspections/EQ-WELD01/a.jpg", rows[2][12])
}

func TestGetInspections(t *testing.T) {
	svc := NewReportService(reportFixture(), zap.NewNop())

	list, err := svc.GetInspections(context.Background(), repositories.InspectionPeriod{}, types.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Position)
	assert.Equal(t, 30.3, list[0].Position.Lng)
	assert.Nil(t, list[1].Position)
}
