package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	apperrors "equipment-tracker/pkg/errors"
)

const defaultCaptureTimeout = 5 * time.Second

type LocationServiceInterface interface {
	Record(ctx context.Context, equipmentID uint64, coord lifecycle.Coordinate, recordedBy string) (*entities.LocationLog, error)
	CaptureAndRecord(ctx context.Context, equipmentID uint64, source lifecycle.PositionSource, recordedBy string) (*lifecycle.Coordinate, error)
	RecordByCode(ctx context.Context, code string, source lifecycle.PositionSource, recordedBy string) (*dto.LocationResultDTO, error)
	History(ctx context.Context, code string, limit uint64) (*dto.LocationHistoryDTO, error)
}

type LocationService struct {
	equipmentRepo  repositories.EquipmentRepositoryInterface
	logRepo        repositories.LocationLogRepositoryInterface
	txManager      repositories.TxManagerInterface
	captureTimeout time.Duration
	historyLimit   uint64
	logger         *zap.Logger
	now            func() time.Time
}

func NewLocationService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logRepo repositories.LocationLogRepositoryInterface,
	txManager repositories.TxManagerInterface,
	captureTimeout time.Duration,
	historyLimit int,
	logger *zap.Logger,
) *LocationService {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	if captureTimeout <= 0 {
		captureTimeout = defaultCaptureTimeout
	}
	return &LocationService{
		equipmentRepo:  equipmentRepo,
		logRepo:        logRepo,
		txManager:      txManager,
		captureTimeout: captureTimeout,
		historyLimit:   uint64(historyLimit),
		logger:         logger,
		now:            time.Now,
	}
}

// Record перезаписывает последнюю позицию и добавляет запись в историю
// с той же координатой и временем. Обе записи в одной транзакции.
func (s *LocationService) Record(ctx context.Context, equipmentID uint64, coord lifecycle.Coordinate, recordedBy string) (*entities.LocationLog, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	seenAt := s.now()
	entry := entities.LocationLog{
		EquipmentID: equipmentID,
		Lat:         coord.Lat,
		Lng:         coord.Lng,
		RecordedBy:  recordedBy,
		CreatedAt:   seenAt,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.equipmentRepo.UpdatePosition(ctx, tx, equipmentID, coord, seenAt); err != nil {
			return err
		}
		id, err := s.logRepo.Append(ctx, tx, entry)
		if err != nil {
			return err
		}
		entry.ID = id
		return nil
	})
	if err != nil {
		s.logger.Error("Не удалось сохранить позицию",
			zap.Uint64("equipmentID", equipmentID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Позиция записана",
		zap.Uint64("equipmentID", equipmentID),
		zap.Float64("lat", coord.Lat),
		zap.Float64("lng", coord.Lng),
	)
	return &entry, nil
}

// CaptureAndRecord: отказ датчика не ошибка, возвращается (nil, nil).
// Ошибка возвращается только если координата получена, но не сохранена.
func (s *LocationService) CaptureAndRecord(ctx context.Context, equipmentID uint64, source lifecycle.PositionSource, recordedBy string) (*lifecycle.Coordinate, error) {
	if source == nil {
		return nil, nil
	}

	captureCtx, cancel := context.WithTimeout(ctx, s.captureTimeout)
	coord, err := source.Capture(captureCtx)
	cancel()
	if err != nil {
		if !errors.Is(err, apperrors.ErrPositionUnavailable) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("Координаты не получены",
			zap.Uint64("equipmentID", equipmentID),
			zap.Error(err),
		)
		return nil, nil
	}

	if _, err := s.Record(ctx, equipmentID, coord, recordedBy); err != nil {
		return &coord, err
	}
	return &coord, nil
}

func (s *LocationService) RecordByCode(ctx context.Context, code string, source lifecycle.PositionSource, recordedBy string) (*dto.LocationResultDTO, error) {
	equipment, err := s.equipmentRepo.FindByCode(ctx, nil, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	coord, err := s.CaptureAndRecord(ctx, equipment.ID, source, recordedBy)
	if err != nil {
		return nil, err
	}
	return &dto.LocationResultDTO{Position: coord, Logged: coord != nil}, nil
}

// History - последние позиции, новые первыми. Первая запись - текущая позиция.
func (s *LocationService) History(ctx context.Context, code string, limit uint64) (*dto.LocationHistoryDTO, error) {
	if limit == 0 {
		limit = s.historyLimit
	}
	equipment, err := s.equipmentRepo.FindByCode(ctx, nil, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListByEquipment(ctx, equipment.ID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LocationLogDTO, 0, len(logs))
	for i, l := range logs {
		entries = append(entries, dto.LocationLogDTO{
			ID:         l.ID,
			Lat:        l.Lat,
			Lng:        l.Lng,
			RecordedBy: l.RecordedBy,
			CreatedAt:  l.CreatedAt,
			IsCurrent:  i == 0,
		})
	}
	return &dto.LocationHistoryDTO{Equipment: shortEquipment(*equipment), Entries: entries}, nil
}
