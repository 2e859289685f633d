package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotcircle_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedActivity(f *fakeDynamo, event models.ActivityEvent) {
	if event.FeedScope == "" {
		event.FeedScope = models.FeedScopeAll
	}
	_ = f.PutItem(context.Background(), models.ActivitiesTable, event)
}

func newTestFeedService(f *fakeDynamo) *FeedService {
	fs := NewFeedService(f)
	fs.SpotRetryDelay = time.Millisecond
	return fs
}

func TestLoadFeed_UnauthenticatedUsesGlobal(t *testing.T) {
	fake := newFakeDynamo()
	seedActivity(fake, models.ActivityEvent{ActivityID: "a1", Kind: models.ActivityKindReview, AuthorID: "carol", CreatedAt: "2026-08-01T10:00:00Z"})
	fs := newTestFeedService(fake)

	items, source, err := fs.LoadFeed(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.FeedSourceGlobal, source)
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ActivityID)
}

func TestLoadFeed_NoFriendsFallsBackToGlobal(t *testing.T) {
	fake := newFakeDynamo()
	fake.seedProfile(models.UserProfile{UserID: "alice"})
	seedActivity(fake, models.ActivityEvent{ActivityID: "a1", Kind: models.ActivityKindNewSpot, AuthorID: "carol", CreatedAt: "2026-08-01T10:00:00Z"})
	fs := newTestFeedService(fake)

	_, source, err := fs.LoadFeed(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.FeedSourceGlobal, source)
}

func TestLoadFeed_FriendsSourceWhenFriendsHaveActivity(t *testing.T) {
	fake := newFakeDynamo()
	fake.seedProfile(models.UserProfile{UserID: "alice", FriendIds: []string{"bob"}})
	seedActivity(fake, models.ActivityEvent{ActivityID: "a1", Kind: models.ActivityKindReview, AuthorID: "bob", AuthorName: "Bob Berg", CreatedAt: "2026-08-01T10:00:00Z"})
	seedActivity(fake, models.ActivityEvent{ActivityID: "a2", Kind: models.ActivityKindReview, AuthorID: "stranger", CreatedAt: "2026-08-01T11:00:00Z"})
	fs := newTestFeedService(fake)

	items, source, err := fs.LoadFeed(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.FeedSourceFriends, source)
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ActivityID)
}

func TestLoadFeed_EmptyFriendsQueryFallsBackToGlobal(t *testing.T) {
	fake := newFakeDynamo()
	fake.seedProfile(models.UserProfile{UserID: "alice", FriendIds: []string{"silent"}})
	seedActivity(fake, models.ActivityEvent{ActivityID: "a1", Kind: models.ActivityKindNewUser, AuthorID: "carol", CreatedAt: "2026-08-01T10:00:00Z"})
	fs := newTestFeedService(fake)

	items, source, err := fs.LoadFeed(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.FeedSourceGlobal, source)
	require.Len(t, items, 1)
}

func TestLoadFeed_NewestFirstAndBounded(t *testing.T) {
	fake := newFakeDynamo()
	seedActivity(fake, models.ActivityEvent{ActivityID: "old", Kind: models.ActivityKindReview, AuthorID: "x", CreatedAt: "2026-08-01T08:00:00Z"})
	seedActivity(fake, models.ActivityEvent{ActivityID: "new", Kind: models.ActivityKindReview, AuthorID: "y", CreatedAt: "2026-08-01T12:00:00Z"})
	fs := newTestFeedService(fake)
	fs.PageSize = 1

	items, _, err := fs.LoadFeed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].ActivityID)
}

func TestLoadFeed_GlobalTimeoutSurfacesEmptyResult(t *testing.T) {
	fake := newFakeDynamo()
	fake.queryDelay = 200 * time.Millisecond
	fs := newTestFeedService(fake)
	fs.GlobalTimeout = 10 * time.Millisecond

	items, source, err := fs.LoadFeed(context.Background(), "")
	assert.ErrorIs(t, err, ErrFeedTimeout)
	assert.Equal(t, models.FeedSourceGlobal, source)
	assert.Empty(t, items)
}

func TestSpotEnrichment_ResolvesInPlace(t *testing.T) {
	fake := newFakeDynamo()
	_ = fake.PutItem(context.Background(), models.SpotsTable, models.Spot{SpotID: "cafe-1", Name: "Corner Cafe", Address: "12 Main St"})
	seedActivity(fake, models.ActivityEvent{ActivityID: "a1", Kind: models.ActivityKindReview, AuthorID: "bob", SpotID: "cafe-1", CreatedAt: "2026-08-01T10:00:00Z"})
	fs := newTestFeedService(fake)

	items, _, err := fs.LoadFeed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].SpotResolved)

	assert.Eventually(t, func() bool {
		current, _ := fs.CurrentFeed()
		return len(current) == 1 && current[0].SpotResolved
	}, time.Second, 5*time.Millisecond)

	current, _ := fs.CurrentFeed()
	assert.Equal(t, "Corner Cafe", current[0].SpotName)
	assert.Equal(t, "12 Main St", current[0].SpotAddress)
}

func TestSpotEnrichment_ConcurrentLookupsCollapse(t *testing.T) {
	fake := newFakeDynamo()
	_ = fake.PutItem(context.Background(), models.SpotsTable, models.Spot{SpotID: "cafe-1", Name: "Corner Cafe"})
	fs := newTestFeedService(fake)

	for i := 0; i < 8; i++ {
		fs.resolveSpot("cafe-1", 0)
	}

	assert.Eventually(t, func() bool {
		fs.mu.Lock()
		_, cached := fs.spotCache["cafe-1"]
		fs.mu.Unlock()
		return cached
	}, time.Second, 5*time.Millisecond)

	fake.mu.Lock()
	calls := fake.getCalls[models.SpotsTable]
	fake.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestSpotEnrichment_RetryOnceThenPlaceholder(t *testing.T) {
	fake := newFakeDynamo()
	fake.getErrFor[models.SpotsTable] = errors.New("permission denied")
	seedActivity(fake, models.ActivityEvent{ActivityID: "a1", Kind: models.ActivityKindReview, AuthorID: "bob", SpotID: "cafe-123", CreatedAt: "2026-08-01T10:00:00Z"})
	fs := newTestFeedService(fake)

	_, _, err := fs.LoadFeed(context.Background(), "")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		current, _ := fs.CurrentFeed()
		return len(current) == 1 && current[0].SpotResolved
	}, time.Second, 5*time.Millisecond)

	current, _ := fs.CurrentFeed()
	assert.Equal(t, "Spot CAFE-123", current[0].SpotName)

	fake.mu.Lock()
	calls := fake.getCalls[models.SpotsTable]
	fake.mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestStaleGenerationNeverOverwritesNewerLoad(t *testing.T) {
	fake := newFakeDynamo()
	fs := newTestFeedService(fake)
	fs.generation = 2
	fs.items = []models.FeedItem{{ActivityID: "current"}}

	stale := []models.ActivityEvent{{ActivityID: "stale", Kind: models.ActivityKindReview, CreatedAt: "2026-08-01T10:00:00Z"}}
	fs.buildItems(1, models.FeedSourceGlobal, stale)

	current, _ := fs.CurrentFeed()
	require.Len(t, current, 1)
	assert.Equal(t, "current", current[0].ActivityID)
}

func TestFilterItems_CaseInsensitiveSubstring(t *testing.T) {
	fake := newFakeDynamo()
	fs := newTestFeedService(fake)
	fs.items = []models.FeedItem{
		{ActivityID: "a1", SpotName: "Corner Cafe", Comment: "great espresso"},
		{ActivityID: "a2", AuthorName: "Bob Berg", Category: "Brunch"},
		{ActivityID: "a3", Comment: "loud and crowded"},
	}

	assert.Len(t, fs.FilterItems("ESPRESSO"), 1)
	assert.Len(t, fs.FilterItems("brunch"), 1)
	assert.Len(t, fs.FilterItems(""), 3)
	assert.Empty(t, fs.FilterItems("sushi"))
}

func TestClearCache_ForcesReResolution(t *testing.T) {
	fake := newFakeDynamo()
	_ = fake.PutItem(context.Background(), models.SpotsTable, models.Spot{SpotID: "cafe-1", Name: "Corner Cafe"})
	seedActivity(fake, models.ActivityEvent{ActivityID: "a1", Kind: models.ActivityKindReview, AuthorID: "bob", SpotID: "cafe-1", CreatedAt: "2026-08-01T10:00:00Z"})
	fs := newTestFeedService(fake)

	_, _, err := fs.LoadFeed(context.Background(), "")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		current, _ := fs.CurrentFeed()
		return len(current) == 1 && current[0].SpotResolved
	}, time.Second, 5*time.Millisecond)

	fs.ClearCache()

	_, _, err = fs.LoadFeed(context.Background(), "")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return fake.getCalls[models.SpotsTable] == 2
	}, time.Second, 5*time.Millisecond)
}
