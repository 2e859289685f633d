package services

import (
	"context"
	"log"
	"sync"

	"spotcircle_server/models"
)

// SchedulerFactory produces a delivery scheduler bound to one user.
type SchedulerFactory func(userID string) NotificationScheduler

// NotificationRegistry hands out one admission controller per user,
// persisted under its own key and created lazily on first use.
type NotificationRegistry struct {
	store    KeyValueStore
	factory  SchedulerFactory
	settings models.NotificationSettings

	mu          sync.Mutex
	controllers map[string]*NotificationService
}

func NewNotificationRegistry(store KeyValueStore, factory SchedulerFactory, settings models.NotificationSettings) *NotificationRegistry {
	return &NotificationRegistry{
		store:       store,
		factory:     factory,
		settings:    settings,
		controllers: make(map[string]*NotificationService),
	}
}

// For returns the admission controller for a user, restoring its persisted
// state on first access.
func (nr *NotificationRegistry) For(ctx context.Context, userID string) *NotificationService {
	nr.mu.Lock()
	defer nr.mu.Unlock()

	if controller, ok := nr.controllers[userID]; ok {
		return controller
	}

	controller := NewNotificationService(nr.store, nr.factory(userID), "notifications/"+userID, nr.settings)
	if err := controller.LoadState(ctx); err != nil {
		log.Printf("Failed to restore notification state for %s: %v", userID, err)
	}
	nr.controllers[userID] = controller
	return controller
}
