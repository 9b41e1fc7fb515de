package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/config"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/types"
)

type EquipmentTypeServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]dto.EquipmentTypeDTO, uint64, error)
	FindByID(ctx context.Context, id uint64) (*dto.EquipmentTypeDTO, error)
	Create(ctx context.Context, d dto.CreateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type EquipmentTypeService struct {
	repo      repositories.EquipmentTypeRepositoryInterface
	txManager repositories.TxManagerInterface
	cfg       config.MaintenanceConfig
	logger    *zap.Logger
}

func NewEquipmentTypeService(
	repo repositories.EquipmentTypeRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cfg config.MaintenanceConfig,
	logger *zap.Logger,
) EquipmentTypeServiceInterface {
	return &EquipmentTypeService{repo: repo, txManager: txManager, cfg: cfg, logger: logger}
}

// Метка пункта - ключ ответа, поэтому повторы в одном шаблоне запрещены.
func checkDuplicateLabels(schema []lifecycle.ChecklistItem) error {
	seen := make(map[string]struct{}, len(schema))
	for _, item := range schema {
		key := strings.ToLower(strings.TrimSpace(item.Label))
		if _, ok := seen[key]; ok {
			return apperrors.NewValidationError("пункты чек-листа повторяются", item.Label)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (s *EquipmentTypeService) GetAll(ctx context.Context, filter types.Filter) ([]dto.EquipmentTypeDTO, uint64, error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.EquipmentTypeDTO, 0, len(list))
	for _, t := range list {
		out = append(out, equipmentTypeToDTO(t))
	}
	return out, total, nil
}

func (s *EquipmentTypeService) FindByID(ctx context.Context, id uint64) (*dto.EquipmentTypeDTO, error) {
	t, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	out := equipmentTypeToDTO(*t)
	return &out, nil
}

func (s *EquipmentTypeService) Create(ctx context.Context, d dto.CreateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error) {
	if err := checkDuplicateLabels(d.ChecklistSchema); err != nil {
		return nil, err
	}
	period := d.MaintenancePeriodDays
	if period <= 0 {
		period = s.cfg.DefaultPeriodDays
	}

	id, err := s.repo.Create(ctx, nil, entities.EquipmentType{
		Name:                  strings.TrimSpace(d.Name),
		MaintenancePeriodDays: period,
		ChecklistSchema:       d.ChecklistSchema,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Тип оборудования создан", zap.Uint64("id", id), zap.String("name", d.Name))
	return s.FindByID(ctx, id)
}

// Update: отсутствующие поля сохраняют текущие значения, чек-лист заменяется целиком.
func (s *EquipmentTypeService) Update(ctx context.Context, id uint64, d dto.UpdateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error) {
	if d.ChecklistSchema != nil {
		if err := checkDuplicateLabels(d.ChecklistSchema); err != nil {
			return nil, err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if d.Name != nil {
			current.Name = strings.TrimSpace(*d.Name)
		}
		if d.MaintenancePeriodDays != nil {
			current.MaintenancePeriodDays = *d.MaintenancePeriodDays
		}
		if d.ChecklistSchema != nil {
			current.ChecklistSchema = d.ChecklistSchema
		}
		return s.repo.Update(ctx, tx, id, *current)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Тип оборудования обновлён", zap.Uint64("id", id))
	return s.FindByID(ctx, id)
}

func (s *EquipmentTypeService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Тип оборудования удалён", zap.Uint64("id", id))
	return nil
}
