package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"spotcircle_server/models"

	"github.com/google/uuid"
)

// KeyValueStore is the persistence collaborator for notification state:
// opaque bytes under a string key.
type KeyValueStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// NotificationScheduler is the delivery collaborator. Fire-and-forget; no
// delivery receipt is consumed here.
type NotificationScheduler interface {
	Schedule(id, title, body string, sound bool, badgeCount int)
}

const (
	notificationHourWindow      = time.Hour
	notificationDayWindow       = 24 * time.Hour
	notificationDuplicateWindow = 5 * time.Minute
	pendingQueueLimit           = 20
	pruneEveryEmissions         = 10
	batchAdmitLimit             = 3
	defaultPendingRetryDelay    = 5 * time.Minute
)

// NotificationService is the admission controller for engagement
// notifications: it decides per candidate event whether a user-visible
// notification fires now, is deferred, or is dropped. History and the
// pending queue are persisted through the key-value collaborator after
// every mutation and reloaded at startup.
//
// All decisions are serialized behind one mutex so rolling-window counts
// stay correct under concurrent submissions.
type NotificationService struct {
	store     KeyValueStore
	scheduler NotificationScheduler
	stateKey  string

	// PendingRetryDelay is the deferral before queued events are replayed.
	PendingRetryDelay time.Duration

	mu                  sync.Mutex
	settings            models.NotificationSettings
	history             []time.Time
	pending             []models.ActivityEvent
	emissionsSincePrune int
	pendingTimer        *time.Timer
	now                 func() time.Time
}

type notificationState struct {
	Settings *models.NotificationSettings `json:"settings,omitempty"`
	History  []time.Time                  `json:"history"`
	Pending  []models.ActivityEvent       `json:"pending"`
}

// NewNotificationService returns a controller with the given policy. Call
// LoadState before use to restore persisted history.
func NewNotificationService(store KeyValueStore, scheduler NotificationScheduler, stateKey string, settings models.NotificationSettings) *NotificationService {
	return &NotificationService{
		store:             store,
		scheduler:         scheduler,
		stateKey:          stateKey,
		PendingRetryDelay: defaultPendingRetryDelay,
		settings:          settings,
		now:               time.Now,
	}
}

// LoadState restores the persisted settings, history and pending queue,
// pruning history entries older than the 24-hour window.
func (ns *NotificationService) LoadState(ctx context.Context) error {
	data, found, err := ns.store.Load(ctx, ns.stateKey)
	if err != nil {
		return fmt.Errorf("failed to load notification state: %w", err)
	}
	if !found {
		return nil
	}

	var state notificationState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to decode notification state: %w", err)
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()
	if state.Settings != nil {
		ns.settings = *state.Settings
	}
	ns.history = state.History
	ns.pending = state.Pending
	ns.pruneHistoryLocked()
	ns.persistLocked(ctx)
	return nil
}

// Settings returns the current policy.
func (ns *NotificationService) Settings() models.NotificationSettings {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.settings
}

// UpdateSettings replaces the policy and persists it.
func (ns *NotificationService) UpdateSettings(ctx context.Context, settings models.NotificationSettings) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.settings = settings
	ns.persistLocked(ctx)
}

// Notify runs one event through the admission gate. Admitted events fire a
// notification immediately; rejected ones are queued for a single deferred
// re-evaluation. Rejection is not an error.
func (ns *NotificationService) Notify(ctx context.Context, event models.ActivityEvent) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.notifyLocked(ctx, event, true)
}

func (ns *NotificationService) notifyLocked(ctx context.Context, event models.ActivityEvent, queueOnReject bool) bool {
	if !ns.shouldEmitLocked(event) {
		if queueOnReject {
			ns.queueLocked(event)
			ns.armPendingTimerLocked()
			ns.persistLocked(ctx)
		}
		return false
	}

	ns.history = append(ns.history, ns.now())
	ns.emissionsSincePrune++
	if ns.emissionsSincePrune >= pruneEveryEmissions {
		ns.pruneHistoryLocked()
	}
	ns.persistLocked(ctx)

	title, body := buildNotificationPayload(event)
	id := event.ActivityID
	if id == "" {
		id = uuid.NewString()
	}
	badge := 0
	if ns.settings.Badge {
		badge = 1
	}
	ns.scheduler.Schedule(id, title, body, ns.settings.Sound, badge)
	return true
}

// shouldEmitLocked applies the policy checks in fixed order; the first
// failing check rejects.
func (ns *NotificationService) shouldEmitLocked(event models.ActivityEvent) bool {
	if !ns.settings.KindEnabled(event.Kind) {
		return false
	}
	if ns.inQuietHours(eventTime(event, ns.now).Hour()) {
		return false
	}

	now := ns.now()
	if ns.countSinceLocked(now.Add(-notificationHourWindow)) >= ns.settings.MaxPerHour {
		return false
	}
	if ns.countSinceLocked(now.Add(-notificationDayWindow)) >= ns.settings.MaxPerDay {
		return false
	}

	// Any emission at all inside the window blocks the candidate,
	// regardless of kind or actor.
	if len(ns.history) > 0 {
		last := ns.history[len(ns.history)-1]
		if now.Sub(last) < notificationDuplicateWindow {
			return false
		}
	}
	return true
}

// inQuietHours reports whether an hour-of-day falls in the configured
// window. A start greater than the end means the window wraps midnight.
func (ns *NotificationService) inQuietHours(hour int) bool {
	start, end := ns.settings.QuietHoursStart, ns.settings.QuietHoursEnd
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

func (ns *NotificationService) countSinceLocked(cutoff time.Time) int {
	count := 0
	for _, ts := range ns.history {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}

func (ns *NotificationService) queueLocked(event models.ActivityEvent) {
	ns.pending = append(ns.pending, event)
	if len(ns.pending) > pendingQueueLimit {
		ns.pending = ns.pending[len(ns.pending)-pendingQueueLimit:]
	}
}

// ProcessBatch gates a batch of candidates, newest first, admitting at most
// min(MaxPerHour, 3). Everything else lands in the pending queue and a
// deferred replay is armed.
func (ns *NotificationService) ProcessBatch(ctx context.Context, events []models.ActivityEvent) int {
	sorted := append([]models.ActivityEvent(nil), events...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})

	admitLimit := batchAdmitLimit
	ns.mu.Lock()
	if ns.settings.MaxPerHour < admitLimit {
		admitLimit = ns.settings.MaxPerHour
	}

	admitted := 0
	for _, event := range sorted {
		if admitted >= admitLimit {
			ns.queueLocked(event)
			continue
		}
		if ns.notifyLocked(ctx, event, true) {
			admitted++
		}
	}
	ns.persistLocked(ctx)

	if len(ns.pending) > 0 {
		ns.armPendingTimerLocked()
	}
	ns.mu.Unlock()

	return admitted
}

func (ns *NotificationService) armPendingTimerLocked() {
	if ns.pendingTimer != nil {
		ns.pendingTimer.Stop()
	}
	ns.pendingTimer = time.AfterFunc(ns.PendingRetryDelay, func() {
		ns.ProcessPendingNotifications(context.Background())
	})
}

// ProcessPendingNotifications replays the queued events through the gate
// exactly once. Re-admitted events fire; the rest are dropped, never
// requeued.
func (ns *NotificationService) ProcessPendingNotifications(ctx context.Context) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	queued := ns.pending
	ns.pending = nil
	for _, event := range queued {
		ns.notifyLocked(ctx, event, false)
	}
	ns.persistLocked(ctx)
}

// ResetHistory clears all persisted state.
func (ns *NotificationService) ResetHistory(ctx context.Context) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.history = nil
	ns.pending = nil
	ns.emissionsSincePrune = 0
	ns.persistLocked(ctx)
}

func (ns *NotificationService) pruneHistoryLocked() {
	cutoff := ns.now().Add(-notificationDayWindow)
	kept := ns.history[:0]
	for _, ts := range ns.history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	ns.history = kept
	ns.emissionsSincePrune = 0
}

func (ns *NotificationService) persistLocked(ctx context.Context) {
	settings := ns.settings
	state := notificationState{Settings: &settings, History: ns.history, Pending: ns.pending}
	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("Failed to encode notification state: %v", err)
		return
	}
	if err := ns.store.Save(ctx, ns.stateKey, data); err != nil {
		log.Printf("Failed to persist notification state: %v", err)
	}
}

func eventTime(event models.ActivityEvent, now func() time.Time) time.Time {
	ts, err := time.Parse(time.RFC3339, event.CreatedAt)
	if err != nil {
		return now()
	}
	return ts
}

// buildNotificationPayload templates the title/body per event kind.
func buildNotificationPayload(event models.ActivityEvent) (string, string) {
	switch event.Kind {
	case models.ActivityKindReview:
		return "New review", fmt.Sprintf("%s rated a spot %.1f stars", event.AuthorName, event.Rating)
	case models.ActivityKindNewUser:
		return "New member", fmt.Sprintf("%s just joined", event.AuthorName)
	case models.ActivityKindNewSpot:
		return "New spot", fmt.Sprintf("%s added a new spot", event.AuthorName)
	case models.ActivityKindAchievement:
		return "Achievement unlocked", fmt.Sprintf("%s unlocked %s", event.AuthorName, event.AchievementName)
	case models.ActivityKindFriendActivity:
		return "Friend update", fmt.Sprintf("%s is now friends with %s", event.AuthorName, event.FriendName)
	case models.ActivityKindWeeklyChallenge:
		return "Weekly challenge", fmt.Sprintf("Progress: %d of %d", event.ChallengeProgress, event.ChallengeTarget)
	case models.ActivityKindWeeklyRanking:
		return "Weekly ranking", fmt.Sprintf("%s is ranked #%d this week", event.AuthorName, event.Rank)
	default:
		return "Activity", fmt.Sprintf("New activity from %s", event.AuthorName)
	}
}
