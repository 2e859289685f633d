package models

// NotificationSettings controls which engagement events may surface as
// user-visible notifications and under what quotas.
type NotificationSettings struct {
	EnabledKinds    []string `json:"enabledKinds"`
	MaxPerHour      int      `json:"maxPerHour"`
	MaxPerDay       int      `json:"maxPerDay"`
	QuietHoursStart int      `json:"quietHoursStart"` // hour of day, inclusive
	QuietHoursEnd   int      `json:"quietHoursEnd"`   // hour of day, exclusive
	Sound           bool     `json:"sound"`
	Vibration       bool     `json:"vibration"`
	Badge           bool     `json:"badge"`
}

// DefaultNotificationSettings returns the out-of-the-box policy: all kinds
// enabled, 5/hour, 20/day, quiet overnight.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EnabledKinds: []string{
			ActivityKindReview,
			ActivityKindNewUser,
			ActivityKindNewSpot,
			ActivityKindAchievement,
			ActivityKindFriendActivity,
			ActivityKindWeeklyChallenge,
			ActivityKindWeeklyRanking,
		},
		MaxPerHour:      5,
		MaxPerDay:       20,
		QuietHoursStart: 22,
		QuietHoursEnd:   8,
		Sound:           true,
		Vibration:       true,
		Badge:           true,
	}
}

// KindEnabled reports whether a kind is in the enabled set.
func (s NotificationSettings) KindEnabled(kind string) bool {
	for _, k := range s.EnabledKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// AppStateTable backs the key-value store used for notification state
const AppStateTable = "AppState"
