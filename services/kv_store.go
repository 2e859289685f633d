package services

import (
	"context"
	"errors"
	"fmt"

	"spotcircle_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoKeyValueStore backs the KeyValueStore contract with the AppState
// table: one item per key, value held as an opaque byte blob.
type DynamoKeyValueStore struct {
	Dynamo DynamoAPI
}

var _ KeyValueStore = (*DynamoKeyValueStore)(nil)

func (kv *DynamoKeyValueStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	item, err := kv.Dynamo.GetItem(ctx, models.AppStateTable, stateKey(key))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load state '%s': %w", key, err)
	}

	attr, ok := item["value"]
	if !ok {
		return nil, false, nil
	}
	value, ok := attr.(*types.AttributeValueMemberB)
	if !ok {
		return nil, false, fmt.Errorf("state '%s' has a non-binary value", key)
	}
	return value.Value, true, nil
}

func (kv *DynamoKeyValueStore) Save(ctx context.Context, key string, value []byte) error {
	item := map[string]interface{}{
		"stateKey": key,
		"value":    value,
	}
	if err := kv.Dynamo.PutItem(ctx, models.AppStateTable, item); err != nil {
		return fmt.Errorf("failed to save state '%s': %w", key, err)
	}
	return nil
}

func stateKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"stateKey": &types.AttributeValueMemberS{Value: key},
	}
}
