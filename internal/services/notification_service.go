package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/dto"
	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/pkg/types"
	"equipment-tracker/pkg/websocket"
)

type NotificationServiceInterface interface {
	Notify(ctx context.Context, n entities.Notification) (*dto.NotificationDTO, error)
	GetAll(ctx context.Context, filter types.Filter) ([]dto.NotificationDTO, uint64, error)
	UnreadCount(ctx context.Context) (uint64, error)
	MarkRead(ctx context.Context, id uint64) error
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint64) error
}

type NotificationService struct {
	repo        repositories.NotificationRepositoryInterface
	profileRepo repositories.ProfileRepositoryInterface
	ws          WebSocketNotificationServiceInterface
	logger      *zap.Logger
}

func NewNotificationService(
	repo repositories.NotificationRepositoryInterface,
	profileRepo repositories.ProfileRepositoryInterface,
	ws WebSocketNotificationServiceInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{repo: repo, profileRepo: profileRepo, ws: ws, logger: logger}
}

func notificationToDTO(n entities.Notification) dto.NotificationDTO {
	return dto.NotificationDTO{
		ID:            n.ID,
		EquipmentID:   n.EquipmentID,
		EquipmentName: n.EquipmentName,
		EquipmentCode: n.EquipmentCode,
		Title:         n.Title,
		Message:       n.Message,
		Type:          string(n.Type),
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}

// Notify сохраняет уведомление и рассылает его подключённым администраторам.
// Ошибка доставки по websocket не считается ошибкой: запись уже в БД.
func (s *NotificationService) Notify(ctx context.Context, n entities.Notification) (*dto.NotificationDTO, error) {
	id, err := s.repo.Create(ctx, nil, n)
	if err != nil {
		s.logger.Error("Не удалось создать уведомление", zap.String("title", n.Title), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := notificationToDTO(*saved)
	s.logger.Info("Уведомление создано", zap.Uint64("id", id), zap.String("type", result.Type))

	s.pushToAdmins(ctx, result)
	return &result, nil
}

func (s *NotificationService) pushToAdmins(ctx context.Context, n dto.NotificationDTO) {
	adminIDs, err := s.profileRepo.ListIDsByRole(ctx, authz.RoleAdmin.String())
	if err != nil {
		s.logger.Warn("Не удалось получить список администраторов", zap.Error(err))
		return
	}

	payload := websocket.NotificationPayload{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		EquipmentID: n.EquipmentID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
	if n.EquipmentID != nil {
		payload.Link = fmt.Sprintf("/admin/equipment/%d", *n.EquipmentID)
	}

	for _, adminID := range adminIDs {
		if err := s.ws.SendNotification(adminID, payload, websocket.MessageTypeNotification); err != nil {
			s.logger.Warn("WebSocket-уведомление не доставлено", zap.Uint64("userID", adminID), zap.Error(err))
		}
	}
}

func (s *NotificationService) GetAll(ctx context.Context, filter types.Filter) ([]dto.NotificationDTO, uint64, error) {
	list, total, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, notificationToDTO(n))
	}
	return out, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (uint64, error) {
	return s.repo.CountUnread(ctx)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint64) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllRead(ctx)
}

func (s *NotificationService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Уведомление удалено", zap.Uint64("id", id))
	return nil
}
