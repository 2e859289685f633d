package services

import (
	"context"
	"fmt"
	"time"

	"spotcircle_server/models"

	"github.com/google/uuid"
)

// ActivityService writes activity events to the Activities table; the feed
// aggregator and the notification gate both consume them.
type ActivityService struct {
	Dynamo DynamoAPI
}

// RecordActivity assigns an id and timestamp if missing and persists the
// event under the shared feed scope.
func (as *ActivityService) RecordActivity(ctx context.Context, event models.ActivityEvent) (*models.ActivityEvent, error) {
	if event.ActivityID == "" {
		event.ActivityID = uuid.NewString()
	}
	if event.CreatedAt == "" {
		event.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	event.FeedScope = models.FeedScopeAll

	if err := as.Dynamo.PutItem(ctx, models.ActivitiesTable, event); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	return &event, nil
}
