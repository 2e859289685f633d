package services

import (
	"context"
	"fmt"

	"spotcircle_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// SpotService owns the Spots table the feed enrichment resolves against.
type SpotService struct {
	Dynamo DynamoAPI
}

// AddSpot persists a new spot, assigning an id if missing.
func (ss *SpotService) AddSpot(ctx context.Context, spot models.Spot) (*models.Spot, error) {
	if spot.SpotID == "" {
		spot.SpotID = uuid.NewString()
	}
	if err := ss.Dynamo.PutItem(ctx, models.SpotsTable, spot); err != nil {
		return nil, fmt.Errorf("failed to add spot: %w", err)
	}
	return &spot, nil
}

// GetSpot fetches a spot by id.
func (ss *SpotService) GetSpot(ctx context.Context, spotID string) (*models.Spot, error) {
	key := map[string]types.AttributeValue{
		"spotId": &types.AttributeValueMemberS{Value: spotID},
	}
	item, err := ss.Dynamo.GetItem(ctx, models.SpotsTable, key)
	if err != nil {
		return nil, err
	}

	var spot models.Spot
	if err := attributevalue.UnmarshalMap(item, &spot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spot: %w", err)
	}
	return &spot, nil
}
