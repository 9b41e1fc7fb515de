package services

import (
	"context"

	"equipment-tracker/pkg/eventbus"
)

// EventPublisher - часть eventbus.Bus, нужная сервисам.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}
