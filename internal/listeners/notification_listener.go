package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/events"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/services"
	"equipment-tracker/pkg/eventbus"
)

// NotificationListener превращает доменные события в уведомления администраторов.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{notificationService: notificationService, logger: logger}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.InspectionSubmitted, l.handleInspectionSubmitted)
	bus.Subscribe(events.EquipmentLocked, l.handleEquipmentLocked)
	l.logger.Info("NotificationListener подписан на события",
		zap.Strings("events", []string{events.InspectionSubmitted, events.EquipmentLocked}),
	)
}

// handleInspectionSubmitted: уведомление только о неисправности.
func (l *NotificationListener) handleInspectionSubmitted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.InspectionSubmittedEvent)
	if !ok || e.Result != lifecycle.ResultFail {
		return nil
	}

	equipmentID := e.EquipmentID
	_, err := l.notificationService.Notify(ctx, entities.Notification{
		EquipmentID: &equipmentID,
		Title:       "Неисправность оборудования",
		Message: fmt.Sprintf("%s (%s): инспекция не пройдена, проверил %s. Оборудование заблокировано.",
			e.EquipmentName, e.EquipmentCode, e.Inspector),
		Type: entities.NotificationDanger,
	})
	return err
}

func (l *NotificationListener) handleEquipmentLocked(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.EquipmentLockedEvent)
	if !ok {
		return nil
	}

	message := fmt.Sprintf("%s (%s) переведено в статус обслуживания администратором.", e.EquipmentName, e.EquipmentCode)
	if e.Reason != "" {
		message += " Причина: " + e.Reason
	}
	equipmentID := e.EquipmentID
	_, err := l.notificationService.Notify(ctx, entities.Notification{
		EquipmentID: &equipmentID,
		Title:       "Оборудование заблокировано",
		Message:     message,
		Type:        entities.NotificationWarning,
	})
	return err
}
