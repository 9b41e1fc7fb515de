package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-tracker/internal/entities"
	"equipment-tracker/pkg/customvalidator"
	apperrors "equipment-tracker/pkg/errors"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func newImporterFixture(t *testing.T) (EquipmentImporterInterface, *fakeEquipmentRepo) {
	t.Helper()
	equipment, repo, _ := newEquipmentFixture(entities.Equipment{ID: 1, Name: "Старый", QRCode: "EQ-EXIST1", TypeID: 1})
	v := validator.New()
	require.NoError(t, customvalidator.RegisterCustomValidations(v))

	projects := &fakeProjectRepo{items: []entities.Project{{ID: 4, Name: "Проект 22220", IsActive: true}}}
	companies := &fakeCompanyRepo{items: []entities.Company{{ID: 9, Name: "МорМонтаж"}}}
	return NewEquipmentImporter(equipment, equipment.typeRepo, projects, companies, v, zap.NewNop()), repo
}

func TestImport_RowOutcomes(t *testing.T) {
	importer, repo := newImporterFixture(t)
	buf := workbook(t, [][]interface{}{
		{"Реестр оборудования цеха 3"},
		{"Наименование", "Тип", "QR-код", "Проект", "Фирма", "Местоположение"},
		{"Аппарат А-1", "Сварка", "EQ-NEW001", "Проект 22220", "МорМонтаж", "Док 1"},
		{"Старый дубль", "Сварка", "EQ-EXIST1"},
		{"", "Сварка"},
		{"Пресс", "Пресс"},
		{"Кабель", "сварка", "!!bad"},
		{"Лебёдка", "Сварка", "", "Проект X"},
		{"Щит", "Без срока"},
	})

	res, err := importer.Import(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 6, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "тип 'Пресс' не найден")
	assert.Equal(t, 7, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Message, "QRCode")
	assert.Equal(t, 8, res.Errors[2].Row)
	assert.Contains(t, res.Errors[2].Message, "проект 'Проект X' не найден")

	created, err := repo.FindByCode(context.Background(), nil, "EQ-NEW001")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), *created.ProjectID)
	assert.Equal(t, uint64(9), *created.CompanyID)
	assert.Equal(t, "Док 1", *created.LocationDescription)
}

func TestImport_MissingHeader(t *testing.T) {
	importer, _ := newImporterFixture(t)
	buf := workbook(t, [][]interface{}{{"Название", "Серийный номер"}, {"Кран", "123"}})

	_, err := importer.Import(context.Background(), buf)
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"file"}, vErr.Fields)
}

func TestImport_NotAWorkbook(t *testing.T) {
	importer, _ := newImporterFixture(t)

	_, err := importer.Import(context.Background(), strings.NewReader("name,type\nКран,Сварка\n"))
	var vErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestMatchHeader(t *testing.T) {
	col, ok := matchHeader("  QR-код ")
	assert.True(t, ok)
	assert.Equal(t, colQRCode, col)

	_, ok = matchHeader("примечание")
	assert.False(t, ok)
}
