package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/types"
)

const dashboardTopItems = 3

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type DashboardService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	notifications NotificationServiceInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewDashboardService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	notifications NotificationServiceInterface,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		equipmentRepo: equipmentRepo,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

// bucketBounds - календарные границы, согласованные с lifecycle.DeriveStatus:
// warning до конца WarningWindowDays-го дня включительно.
func bucketBounds(today time.Time) repositories.BucketBounds {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return repositories.BucketBounds{
		TodayStart: start,
		WarningEnd: start.AddDate(0, 0, lifecycle.WarningWindowDays+1),
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	today := s.now()
	bounds := bucketBounds(today)

	counts, err := s.equipmentRepo.CountBuckets(ctx, bounds)
	if err != nil {
		s.logger.Error("Не удалось посчитать группы оборудования", zap.Error(err))
		return nil, err
	}

	result := &dto.DashboardDTO{
		Counts: dto.DashboardCountsDTO{
			Total:   counts.Total,
			Active:  counts.Active,
			Warning: counts.Warning,
			Faulty:  counts.Faulty,
			Overdue: counts.Overdue,
		},
	}

	for _, bucket := range []struct {
		name repositories.EquipmentBucket
		dst  *[]dto.EquipmentDTO
	}{
		{repositories.BucketFaulty, &result.Faulty},
		{repositories.BucketOverdue, &result.Overdue},
		{repositories.BucketWarning, &result.Warning},
	} {
		items, err := s.equipmentRepo.ListBucket(ctx, bucket.name, bounds, dashboardTopItems)
		if err != nil {
			return nil, err
		}
		list := make([]dto.EquipmentDTO, 0, len(items))
		for _, e := range items {
			list = append(list, equipmentToDTO(e, today))
		}
		*bucket.dst = list
	}

	unread, err := s.notifications.UnreadCount(ctx)
	if err != nil {
		return nil, err
	}
	result.UnreadNotifications = unread

	latest, _, err := s.notifications.GetAll(ctx, types.Filter{Limit: 5, Page: 1, WithPagination: true})
	if err != nil {
		return nil, err
	}
	result.LatestNotifications = latest
	return result, nil
}
