package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spotcircle_server/models"
	"spotcircle_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrFeedTimeout is returned when the global feed query exceeds its
// wall-clock budget. The caller gets an empty result instead of a hang.
var ErrFeedTimeout = errors.New("feed load timed out")

const (
	defaultFeedPageSize    = 30
	defaultGlobalTimeout   = 5 * time.Second
	defaultSpotRetryDelay  = 2 * time.Second
	spotPlaceholderPrefix  = "Spot "
	spotPlaceholderMaxSize = 8
)

// FeedService decides whether the activity feed is sourced from the
// viewer's friends or the global pool, and lazily resolves spot names
// without blocking the initial result. Loads are tagged with a generation
// counter; completions belonging to a superseded load never overwrite
// newer state.
type FeedService struct {
	Dynamo DynamoAPI

	// PageSize bounds every feed query. GlobalTimeout is the wall-clock
	// budget for the global path. SpotRetryDelay is the pause before the
	// single retry of a failed spot lookup.
	PageSize       int32
	GlobalTimeout  time.Duration
	SpotRetryDelay time.Duration

	// OnItemResolved, if set, is called for every item updated in place
	// by a completed spot lookup.
	OnItemResolved func(models.FeedItem)

	generation int64

	mu        sync.Mutex
	items     []models.FeedItem
	source    string
	spotCache map[string]models.Spot
	inFlight  map[string]struct{}
}

// NewFeedService returns a feed service with default bounds.
func NewFeedService(dynamo DynamoAPI) *FeedService {
	return &FeedService{
		Dynamo:         dynamo,
		PageSize:       defaultFeedPageSize,
		GlobalTimeout:  defaultGlobalTimeout,
		SpotRetryDelay: defaultSpotRetryDelay,
		spotCache:      make(map[string]models.Spot),
		inFlight:       make(map[string]struct{}),
	}
}

// LoadFeed loads the feed for a viewer. An empty viewerID (unauthenticated)
// forces the global source; otherwise the friends source is tried first and
// the global pool is the fallback. Only a global-path failure surfaces as
// an error.
func (fs *FeedService) LoadFeed(ctx context.Context, viewerID string) ([]models.FeedItem, string, error) {
	gen := atomic.AddInt64(&fs.generation, 1)

	events, source := fs.loadEvents(ctx, viewerID)
	if source == models.FeedSourceGlobal && events == nil {
		globalEvents, err := fs.loadGlobalEvents(ctx)
		if err != nil {
			return nil, models.FeedSourceGlobal, err
		}
		events = globalEvents
	}

	items := fs.buildItems(gen, source, events)
	return items, source, nil
}

// loadEvents tries the friends path. It returns (nil, global) whenever the
// caller should source from the global pool instead.
func (fs *FeedService) loadEvents(ctx context.Context, viewerID string) ([]models.ActivityEvent, string) {
	if viewerID == "" {
		return nil, models.FeedSourceGlobal
	}

	friendIds, err := fs.viewerFriendIds(ctx, viewerID)
	if err != nil {
		log.Printf("Feed: falling back to global, friend set unavailable for %s: %v", viewerID, err)
		return nil, models.FeedSourceGlobal
	}
	if len(friendIds) == 0 {
		return nil, models.FeedSourceGlobal
	}

	events, err := fs.loadFriendEvents(ctx, friendIds)
	if err != nil {
		log.Printf("Feed: falling back to global, friends query failed for %s: %v", viewerID, err)
		return nil, models.FeedSourceGlobal
	}
	if len(events) == 0 {
		return nil, models.FeedSourceGlobal
	}
	return events, models.FeedSourceFriends
}

func (fs *FeedService) viewerFriendIds(ctx context.Context, viewerID string) ([]string, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: viewerID},
	}
	item, err := fs.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	return utils.ExtractStringSet(item, "friendIds"), nil
}

// loadFriendEvents queries the author index once per friend, then merges
// newest-first and truncates to one page.
func (fs *FeedService) loadFriendEvents(ctx context.Context, friendIds []string) ([]models.ActivityEvent, error) {
	var merged []models.ActivityEvent
	for _, friendID := range friendIds {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(models.ActivitiesTable),
			IndexName:              aws.String(models.ActivityAuthorIndex),
			KeyConditionExpression: aws.String("authorId = :author"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":author": &types.AttributeValueMemberS{Value: friendID},
			},
			Limit:            aws.Int32(fs.PageSize),
			ScanIndexForward: aws.Bool(false),
		}
		items, err := fs.Dynamo.QueryItemsWithQueryInput(ctx, input)
		if err != nil {
			return nil, err
		}

		var events []models.ActivityEvent
		if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
			return nil, fmt.Errorf("failed to unmarshal friend activities: %w", err)
		}
		merged = append(merged, events...)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt > merged[j].CreatedAt
	})
	if len(merged) > int(fs.PageSize) {
		merged = merged[:fs.PageSize]
	}
	return merged, nil
}

// loadGlobalEvents queries the global feed index under a bounded wall-clock
// budget.
func (fs *FeedService) loadGlobalEvents(ctx context.Context) ([]models.ActivityEvent, error) {
	queryCtx, cancel := context.WithTimeout(ctx, fs.GlobalTimeout)
	defer cancel()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(models.ActivitiesTable),
		IndexName:              aws.String(models.ActivityFeedIndex),
		KeyConditionExpression: aws.String("feedScope = :scope"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scope": &types.AttributeValueMemberS{Value: models.FeedScopeAll},
		},
		Limit:            aws.Int32(fs.PageSize),
		ScanIndexForward: aws.Bool(false),
	}

	items, err := fs.Dynamo.QueryItemsWithQueryInput(queryCtx, input)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || queryCtx.Err() == context.DeadlineExceeded {
			return nil, ErrFeedTimeout
		}
		return nil, fmt.Errorf("global feed query failed: %w", err)
	}

	var events []models.ActivityEvent
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal global activities: %w", err)
	}
	return events, nil
}

// buildItems maps events to display items, fills spot details from the
// session cache where possible and kicks off one lookup per unresolved
// spot id.
func (fs *FeedService) buildItems(gen int64, source string, events []models.ActivityEvent) []models.FeedItem {
	items := make([]models.FeedItem, 0, len(events))
	pending := make(map[string]struct{})

	fs.mu.Lock()
	for _, ev := range events {
		item := models.FeedItem{
			ActivityID: ev.ActivityID,
			Kind:       ev.Kind,
			AuthorID:   ev.AuthorID,
			AuthorName: ev.AuthorName,
			CreatedAt:  ev.CreatedAt,
			SpotID:     ev.SpotID,
			Rating:     ev.Rating,
			Comment:    ev.Comment,
			Category:   ev.Category,
		}
		if ev.SpotID != "" {
			if spot, ok := fs.spotCache[ev.SpotID]; ok {
				item.SpotName = spot.Name
				item.SpotAddress = spot.Address
				item.SpotResolved = true
			} else {
				pending[ev.SpotID] = struct{}{}
			}
		}
		items = append(items, item)
	}

	if atomic.LoadInt64(&fs.generation) == gen {
		fs.items = append([]models.FeedItem(nil), items...)
		fs.source = source
	}
	fs.mu.Unlock()

	for spotID := range pending {
		fs.resolveSpot(spotID, gen)
	}
	return items
}

// resolveSpot starts at most one lookup per spot id; concurrent requests
// for the same key collapse into the in-flight one.
func (fs *FeedService) resolveSpot(spotID string, gen int64) {
	fs.mu.Lock()
	if _, cached := fs.spotCache[spotID]; cached {
		fs.mu.Unlock()
		return
	}
	if _, running := fs.inFlight[spotID]; running {
		fs.mu.Unlock()
		return
	}
	fs.inFlight[spotID] = struct{}{}
	fs.mu.Unlock()

	go fs.lookupSpot(spotID, gen)
}

func (fs *FeedService) lookupSpot(spotID string, gen int64) {
	spot, err := fs.fetchSpot(spotID)
	if err != nil {
		// one retry after a short fixed delay, then a deterministic
		// placeholder derived from the id; never left blank
		time.Sleep(fs.SpotRetryDelay)
		spot, err = fs.fetchSpot(spotID)
	}

	fs.mu.Lock()
	delete(fs.inFlight, spotID)

	resolved := models.Spot{SpotID: spotID}
	if err != nil {
		log.Printf("Feed: spot lookup failed twice for %s, using placeholder: %v", spotID, err)
		resolved.Name = placeholderSpotName(spotID)
	} else {
		resolved = *spot
		fs.spotCache[spotID] = resolved
	}

	var updated []models.FeedItem
	if atomic.LoadInt64(&fs.generation) == gen {
		for i := range fs.items {
			if fs.items[i].SpotID == spotID && !fs.items[i].SpotResolved {
				fs.items[i].SpotName = resolved.Name
				fs.items[i].SpotAddress = resolved.Address
				fs.items[i].SpotResolved = true
				updated = append(updated, fs.items[i])
			}
		}
	}
	callback := fs.OnItemResolved
	fs.mu.Unlock()

	if callback != nil {
		for _, item := range updated {
			callback(item)
		}
	}
}

func (fs *FeedService) fetchSpot(spotID string) (*models.Spot, error) {
	key := map[string]types.AttributeValue{
		"spotId": &types.AttributeValueMemberS{Value: spotID},
	}
	item, err := fs.Dynamo.GetItem(context.Background(), models.SpotsTable, key)
	if err != nil {
		return nil, err
	}

	var spot models.Spot
	if err := attributevalue.UnmarshalMap(item, &spot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spot %s: %w", spotID, err)
	}
	return &spot, nil
}

func placeholderSpotName(spotID string) string {
	suffix := spotID
	if len(suffix) > spotPlaceholderMaxSize {
		suffix = suffix[:spotPlaceholderMaxSize]
	}
	return spotPlaceholderPrefix + strings.ToUpper(suffix)
}

// CurrentFeed returns a snapshot of the most recent load.
func (fs *FeedService) CurrentFeed() ([]models.FeedItem, string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]models.FeedItem(nil), fs.items...), fs.source
}

// FilterItems applies a case-insensitive substring match over the loaded
// items' text fields. It never triggers a remote query.
func (fs *FeedService) FilterItems(query string) []models.FeedItem {
	items, _ := fs.CurrentFeed()
	if query == "" {
		return items
	}

	needle := strings.ToLower(query)
	var matched []models.FeedItem
	for _, item := range items {
		haystack := strings.ToLower(item.SpotName + " " + item.AuthorName + " " + item.Comment + " " + item.Category)
		if strings.Contains(haystack, needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// ClearCache wipes the spot cache and all in-flight markers so the next
// load re-resolves from scratch (app backgrounding).
func (fs *FeedService) ClearCache() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.spotCache = make(map[string]models.Spot)
	fs.inFlight = make(map[string]struct{})
}
