package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/repositories"
	apperrors "equipment-tracker/pkg/errors"
)

type importColumn int

const (
	colName importColumn = iota
	colType
	colQRCode
	colSerial
	colLocation
	colProject
	colCompany
)

// importHeaders - допустимые названия колонок в шапке (без учёта регистра).
var importHeaders = map[importColumn][]string{
	colName:     {"name", "название", "наименование"},
	colType:     {"type", "тип"},
	colQRCode:   {"qr_code", "qr", "qr-код", "код"},
	colSerial:   {"serial_number", "serial", "серийный номер", "s/n"},
	colLocation: {"location", "местоположение", "локация"},
	colProject:  {"project", "проект"},
	colCompany:  {"company", "компания", "фирма"},
}

type EquipmentImporterInterface interface {
	Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error)
}

type EquipmentImporter struct {
	equipment   EquipmentServiceInterface
	typeRepo    repositories.EquipmentTypeRepositoryInterface
	projectRepo repositories.ProjectRepositoryInterface
	companyRepo repositories.CompanyRepositoryInterface
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewEquipmentImporter(
	equipment EquipmentServiceInterface,
	typeRepo repositories.EquipmentTypeRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	validate *validator.Validate,
	logger *zap.Logger,
) EquipmentImporterInterface {
	return &EquipmentImporter{
		equipment:   equipment,
		typeRepo:    typeRepo,
		projectRepo: projectRepo,
		companyRepo: companyRepo,
		validate:    validate,
		logger:      logger,
	}
}

func matchHeader(cell string) (importColumn, bool) {
	cell = strings.ToLower(strings.TrimSpace(cell))
	for col, names := range importHeaders {
		for _, n := range names {
			if cell == n {
				return col, true
			}
		}
	}
	return 0, false
}

// findHeader ищет первую строку, где есть хотя бы name и type.
func findHeader(rows [][]string) (int, map[importColumn]int) {
	for rIdx, row := range rows {
		idx := make(map[importColumn]int)
		for cIdx, cell := range row {
			if col, ok := matchHeader(cell); ok {
				if _, dup := idx[col]; !dup {
					idx[col] = cIdx
				}
			}
		}
		_, hasName := idx[colName]
		_, hasType := idx[colType]
		if hasName && hasType {
			return rIdx, idx
		}
	}
	return -1, nil
}

func cellAt(row []string, idx map[importColumn]int, col importColumn) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Import регистрирует по строке на единицу оборудования. Ошибка строки не
// прерывает загрузку: строка попадает в Errors, уже существующий QR-код - в Skipped.
func (s *EquipmentImporter) Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("файл не является книгой xlsx", "file")
	}
	defer f.Close()

	var rows [][]string
	headerRow := -1
	var idx map[importColumn]int
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения листа %s: %w", sheet, err)
		}
		if headerRow, idx = findHeader(sheetRows); headerRow != -1 {
			rows = sheetRows
			break
		}
	}
	if headerRow == -1 {
		return nil, apperrors.NewValidationError("не найдена шапка таблицы: нужны колонки name и type", "file")
	}

	result := &dto.ImportResultDTO{Errors: []dto.ImportRowError{}}
	typeIDs := make(map[string]uint64)
	projectIDs := make(map[string]uint64)
	companyIDs := make(map[string]uint64)

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1
		name := cellAt(row, idx, colName)
		if name == "" {
			continue
		}

		create, err := s.buildRow(ctx, row, idx, typeIDs, projectIDs, companyIDs)
		if err == nil {
			err = s.validate.Struct(create)
		}
		if err == nil {
			_, err = s.equipment.Register(ctx, *create)
		}

		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, apperrors.ErrConflict):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, dto.ImportRowError{Row: lineNum, Message: rowErrorMessage(err)})
		}
	}

	s.logger.Info("Импорт оборудования завершён",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func rowErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			fields = append(fields, e.Field())
		}
		return "неверные поля: " + strings.Join(fields, ", ")
	}
	return err.Error()
}

func (s *EquipmentImporter) buildRow(
	ctx context.Context,
	row []string,
	idx map[importColumn]int,
	typeIDs, projectIDs, companyIDs map[string]uint64,
) (*dto.CreateEquipmentDTO, error) {
	typeName := cellAt(row, idx, colType)
	typeID, ok := typeIDs[typeName]
	if !ok {
		t, err := s.typeRepo.FindByName(ctx, nil, typeName)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("тип '%s' не найден", typeName)
			}
			return nil, err
		}
		typeID = t.ID
		typeIDs[typeName] = typeID
	}

	d := &dto.CreateEquipmentDTO{
		Name:                cellAt(row, idx, colName),
		QRCode:              cellAt(row, idx, colQRCode),
		TypeID:              typeID,
		SerialNumber:        optional(cellAt(row, idx, colSerial)),
		LocationDescription: optional(cellAt(row, idx, colLocation)),
	}

	if projectName := cellAt(row, idx, colProject); projectName != "" {
		id, ok := projectIDs[projectName]
		if !ok {
			p, err := s.projectRepo.FindByName(ctx, nil, projectName)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("проект '%s' не найден", projectName)
				}
				return nil, err
			}
			id = p.ID
			projectIDs[projectName] = id
		}
		d.ProjectID = &id
	}

	if companyName := cellAt(row, idx, colCompany); companyName != "" {
		id, ok := companyIDs[companyName]
		if !ok {
			c, err := s.companyRepo.FindByName(ctx, nil, companyName)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("компания '%s' не найдена", companyName)
				}
				return nil, err
			}
			id = c.ID
			companyIDs[companyName] = id
		}
		d.CompanyID = &id
	}
	return d, nil
}
