package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"spotcircle_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// fakeDynamo is an in-memory DynamoAPI. It honors the contract the services
// rely on: GetItem returns ErrItemNotFound for missing keys, transact
// batches apply all-or-nothing, ADD/DELETE update clauses operate on string
// sets, and queries filter on a single equality condition.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	getCalls    map[string]int
	getErrFor   map[string]error
	queryErr    error
	queryDelay  time.Duration
	transactErr error
}

var fakeTableKeys = map[string][]string{
	models.UserProfilesTable:   {"userId"},
	models.FriendsTable:        {"userId", "friendId"},
	models.FriendRequestsTable: {"userId", "otherUserId"},
	models.ActivitiesTable:     {"activityId"},
	models.SpotsTable:          {"spotId"},
	models.AppStateTable:       {"stateKey"},
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables:    make(map[string]map[string]map[string]types.AttributeValue),
		getCalls:  make(map[string]int),
		getErrFor: make(map[string]error),
	}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = make(map[string]map[string]types.AttributeValue)
	}
	return f.tables[name]
}

func itemKey(tableName string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range fakeTableKeys[tableName] {
		parts = append(parts, stringAttr(item, attr))
	}
	return strings.Join(parts, "|")
}

func stringAttr(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field].(*types.AttributeValueMemberS); ok {
		return attr.Value
	}
	return ""
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls[tableName]++
	if err := f.getErrFor[tableName]; err != nil {
		return nil, err
	}

	item, ok := f.table(tableName)[itemKey(tableName, key)]
	if !ok {
		return nil, ErrItemNotFound
	}
	return copyItem(item), nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.table(tableName)[itemKey(tableName, marshaled)] = marshaled
	return nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, tableName string, updateExpression string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applyUpdate(tableName, key, updateExpression, expressionAttributeValues, expressionAttributeNames)
	return copyItem(f.table(tableName)[itemKey(tableName, key)]), nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.table(tableName), itemKey(tableName, key))
	return nil
}

func (f *fakeDynamo) QueryItemsWithQueryInput(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	if f.queryDelay > 0 {
		select {
		case <-time.After(f.queryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	keyField, keyValue := parseEquality(*input.KeyConditionExpression, input.ExpressionAttributeValues)
	var matched []map[string]types.AttributeValue
	for _, item := range f.table(*input.TableName) {
		if stringAttr(item, keyField) != keyValue {
			continue
		}
		if input.FilterExpression != nil {
			filterField, filterValue := parseEquality(*input.FilterExpression, input.ExpressionAttributeValues)
			if stringAttr(item, filterField) != filterValue {
				continue
			}
		}
		matched = append(matched, copyItem(item))
	}

	descending := input.ScanIndexForward != nil && !*input.ScanIndexForward
	sort.Slice(matched, func(i, j int) bool {
		a, b := stringAttr(matched[i], "createdAt"), stringAttr(matched[j], "createdAt")
		if descending {
			return a > b
		}
		return a < b
	})

	if input.Limit != nil && len(matched) > int(*input.Limit) {
		matched = matched[:*input.Limit]
	}
	return matched, nil
}

// parseEquality handles the single "field = :val" shape the services use.
func parseEquality(expr string, values map[string]types.AttributeValue) (string, string) {
	parts := strings.SplitN(expr, "=", 2)
	field := strings.TrimSpace(parts[0])
	placeholder := strings.TrimSpace(parts[1])
	if attr, ok := values[placeholder].(*types.AttributeValueMemberS); ok {
		return field, attr.Value
	}
	return field, ""
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, items []types.TransactWriteItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transactErr != nil {
		return f.transactErr
	}

	for _, item := range items {
		switch {
		case item.Put != nil:
			f.table(*item.Put.TableName)[itemKey(*item.Put.TableName, item.Put.Item)] = copyItem(item.Put.Item)
		case item.Delete != nil:
			delete(f.table(*item.Delete.TableName), itemKey(*item.Delete.TableName, item.Delete.Key))
		case item.Update != nil:
			f.applyUpdate(*item.Update.TableName, item.Update.Key, *item.Update.UpdateExpression, item.Update.ExpressionAttributeValues, nil)
		}
	}
	return nil
}

// applyUpdate interprets the SET / ADD / DELETE grammar the services emit.
// ADD and DELETE act on string sets; updating a missing item creates it,
// as DynamoDB does.
func (f *fakeDynamo) applyUpdate(tableName string, key map[string]types.AttributeValue, expr string, values map[string]types.AttributeValue, names map[string]string) {
	table := f.table(tableName)
	id := itemKey(tableName, key)
	item, ok := table[id]
	if !ok {
		item = copyItem(key)
		table[id] = item
	}

	resolve := func(token string) string {
		if names != nil && strings.HasPrefix(token, "#") {
			return names[token]
		}
		return token
	}

	tokens := strings.Fields(strings.ReplaceAll(expr, ",", " "))
	mode := ""
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "SET", "ADD", "DELETE", "REMOVE":
			mode = tokens[i]
			continue
		}

		switch mode {
		case "SET":
			// field = :val
			field := resolve(tokens[i])
			item[field] = values[tokens[i+2]]
			i += 2
		case "ADD":
			field := resolve(tokens[i])
			item[field] = setUnion(item[field], values[tokens[i+1]])
			i++
		case "DELETE":
			field := resolve(tokens[i])
			if remaining := setMinus(item[field], values[tokens[i+1]]); remaining != nil {
				item[field] = remaining
			} else {
				delete(item, field)
			}
			i++
		case "REMOVE":
			delete(item, resolve(tokens[i]))
		}
	}
}

func setUnion(existing, add types.AttributeValue) types.AttributeValue {
	merged := append([]string(nil), stringSet(existing)...)
	for _, v := range stringSet(add) {
		if !containsString(merged, v) {
			merged = append(merged, v)
		}
	}
	return &types.AttributeValueMemberSS{Value: merged}
}

func setMinus(existing, remove types.AttributeValue) types.AttributeValue {
	var kept []string
	for _, v := range stringSet(existing) {
		if !containsString(stringSet(remove), v) {
			kept = append(kept, v)
		}
	}
	if kept == nil {
		// DynamoDB removes empty sets entirely; nil attribute models that
		return nil
	}
	return &types.AttributeValueMemberSS{Value: kept}
}

func stringSet(attr types.AttributeValue) []string {
	if ss, ok := attr.(*types.AttributeValueMemberSS); ok {
		return ss.Value
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// --- assertion helpers shared by the service tests ---

func (f *fakeDynamo) profileSet(userID, field string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.table(models.UserProfilesTable)[userID]
	if !ok {
		return nil
	}
	return stringSet(item[field])
}

func (f *fakeDynamo) hasItem(tableName string, keyParts ...string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.table(tableName)[strings.Join(keyParts, "|")]
	return ok
}

func (f *fakeDynamo) seedProfile(profile models.UserProfile) {
	_ = f.PutItem(context.Background(), models.UserProfilesTable, profile)
}
