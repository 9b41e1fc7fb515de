package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/events"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/config"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/types"
	"equipment-tracker/pkg/utils"
)

const (
	generatedCodePrefix   = "EQ-"
	generatedCodeLength   = 6
	generatedCodeAttempts = 5
)

type EquipmentServiceInterface interface {
	Register(ctx context.Context, d dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	Update(ctx context.Context, id uint64, d dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	OverrideStatus(ctx context.Context, id uint64, d dto.OverrideStatusDTO) (*dto.EquipmentDTO, error)
	FindByID(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	FindByCode(ctx context.Context, code string) (*dto.EquipmentDTO, error)
	GetAll(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
}

type EquipmentService struct {
	repo      repositories.EquipmentRepositoryInterface
	typeRepo  repositories.EquipmentTypeRepositoryInterface
	txManager repositories.TxManagerInterface
	publisher EventPublisher
	cfg       config.MaintenanceConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewEquipmentService(
	repo repositories.EquipmentRepositoryInterface,
	typeRepo repositories.EquipmentTypeRepositoryInterface,
	txManager repositories.TxManagerInterface,
	publisher EventPublisher,
	cfg config.MaintenanceConfig,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		repo:      repo,
		typeRepo:  typeRepo,
		txManager: txManager,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *EquipmentService) periodFor(t *entities.EquipmentType) int {
	if t != nil && t.MaintenancePeriodDays > 0 {
		return t.MaintenancePeriodDays
	}
	return s.cfg.DefaultPeriodDays
}

func (s *EquipmentService) generateCode(ctx context.Context, tx pgx.Tx) (string, error) {
	for i := 0; i < generatedCodeAttempts; i++ {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		code := generatedCodePrefix + strings.ToUpper(raw[:generatedCodeLength])
		exists, err := s.repo.CodeExists(ctx, tx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("не удалось сгенерировать уникальный QR-код за %d попыток", generatedCodeAttempts)
}

func (s *EquipmentService) findType(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentType, error) {
	t, err := s.typeRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("тип оборудования не найден", "type_id")
		}
		return nil, err
	}
	return t, nil
}

// Register: новое оборудование считается только что обслуженным.
func (s *EquipmentService) Register(ctx context.Context, d dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	now := s.now()
	var newID uint64

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eqType, err := s.findType(ctx, tx, d.TypeID)
		if err != nil {
			return err
		}

		code := strings.TrimSpace(d.QRCode)
		if code == "" {
			if code, err = s.generateCode(ctx, tx); err != nil {
				return err
			}
		}

		location := d.LocationDescription
		if location == nil || strings.TrimSpace(*location) == "" {
			location = utils.ToPtr(s.cfg.DefaultLocation)
		}

		next := lifecycle.NextMaintenanceDate(now, s.periodFor(eqType))
		newID, err = s.repo.Create(ctx, tx, entities.Equipment{
			Name:                strings.TrimSpace(d.Name),
			SerialNumber:        d.SerialNumber,
			QRCode:              code,
			TypeID:              eqType.ID,
			Status:              lifecycle.StatusActive,
			LastMaintenanceDate: &now,
			NextMaintenanceDate: &next,
			LocationDescription: location,
			ProjectID:           d.ProjectID,
			CompanyID:           d.CompanyID,
		})
		return err
	})
	if err != nil {
		s.logger.Warn("Оборудование не зарегистрировано", zap.String("name", d.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Оборудование зарегистрировано", zap.Uint64("id", newID), zap.String("name", d.Name))
	return s.FindByID(ctx, newID)
}

func (s *EquipmentService) Update(ctx context.Context, id uint64, d dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if d.TypeID != current.TypeID {
			if _, err := s.findType(ctx, tx, d.TypeID); err != nil {
				return err
			}
		}

		current.Name = strings.TrimSpace(d.Name)
		current.QRCode = strings.TrimSpace(d.QRCode)
		current.TypeID = d.TypeID
		current.SerialNumber = d.SerialNumber.Ptr()
		current.LocationDescription = d.LocationDescription.Ptr()
		current.ProjectID = d.ProjectID.Ptr()
		current.CompanyID = d.CompanyID.Ptr()
		current.NextMaintenanceDate = d.NextMaintenanceDate

		return s.repo.Update(ctx, tx, id, *current)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Оборудование обновлено", zap.Uint64("id", id))
	return s.FindByID(ctx, id)
}

// OverrideStatus - ручная смена статуса администратором.
// active означает "обслужено сейчас": даты обслуживания сдвигаются.
func (s *EquipmentService) OverrideStatus(ctx context.Context, id uint64, d dto.OverrideStatusDTO) (*dto.EquipmentDTO, error) {
	if !d.Status.Valid() {
		return nil, apperrors.NewValidationError("недопустимый статус", "status")
	}
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var equipment *entities.Equipment
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}

		switch d.Status {
		case lifecycle.StatusMaintenanceRequired:
			return s.repo.SetStatus(ctx, tx, id, lifecycle.StatusMaintenanceRequired)
		case lifecycle.StatusActive:
			eqType, err := s.typeRepo.FindByID(ctx, tx, equipment.TypeID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			now := s.now()
			return s.repo.MarkServiced(ctx, tx, id, now, lifecycle.NextMaintenanceDate(now, s.periodFor(eqType)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Статус оборудования изменён вручную",
		zap.Uint64("id", id),
		zap.String("status", string(d.Status)),
		zap.Uint64("actorID", session.UserID),
	)

	if d.Status == lifecycle.StatusMaintenanceRequired && equipment.Status != lifecycle.StatusMaintenanceRequired {
		s.publisher.Publish(ctx, events.EquipmentLockedEvent{
			EquipmentID:   equipment.ID,
			EquipmentName: equipment.Name,
			EquipmentCode: equipment.QRCode,
			Reason:        d.Reason,
			ActorID:       session.UserID,
		})
	}
	return s.FindByID(ctx, id)
}

func (s *EquipmentService) FindByID(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	e, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	out := equipmentToDTO(*e, s.now())
	return &out, nil
}

func (s *EquipmentService) FindByCode(ctx context.Context, code string) (*dto.EquipmentDTO, error) {
	e, err := s.repo.FindByCode(ctx, nil, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	out := equipmentToDTO(*e, s.now())
	return &out, nil
}

func (s *EquipmentService) GetAll(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	today := s.now()
	out := make([]dto.EquipmentDTO, 0, len(list))
	for _, e := range list {
		out = append(out, equipmentToDTO(e, today))
	}
	return out, total, nil
}
