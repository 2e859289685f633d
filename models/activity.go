package models

// Activity kinds produced by the app's writers.
const (
	ActivityKindReview          = "review"
	ActivityKindNewUser         = "new_user"
	ActivityKindNewSpot         = "new_spot"
	ActivityKindAchievement     = "achievement"
	ActivityKindFriendActivity  = "friend_activity"
	ActivityKindWeeklyChallenge = "weekly_challenge"
	ActivityKindWeeklyRanking   = "weekly_ranking"
)

// ActivityEvent is a tagged activity record. Kind selects which of the
// optional payload fields are meaningful.
type ActivityEvent struct {
	ActivityID string `dynamodbav:"activityId" json:"activityId"`
	Kind       string `dynamodbav:"kind" json:"kind"`
	AuthorID   string `dynamodbav:"authorId" json:"authorId"`
	AuthorName string `dynamodbav:"authorName,omitempty" json:"authorName,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`

	// FeedScope is a constant partition value so the global feed GSI can
	// return all activities ordered by createdAt.
	FeedScope string `dynamodbav:"feedScope" json:"-"`

	// review / new_spot
	SpotID   string  `dynamodbav:"spotId,omitempty" json:"spotId,omitempty"`
	Rating   float64 `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	Comment  string  `dynamodbav:"comment,omitempty" json:"comment,omitempty"`
	Category string  `dynamodbav:"category,omitempty" json:"category,omitempty"`

	// achievement
	AchievementName string `dynamodbav:"achievementName,omitempty" json:"achievementName,omitempty"`

	// friend_activity
	FriendName string `dynamodbav:"friendName,omitempty" json:"friendName,omitempty"`

	// weekly_challenge
	ChallengeProgress int `dynamodbav:"challengeProgress,omitempty" json:"challengeProgress,omitempty"`
	ChallengeTarget   int `dynamodbav:"challengeTarget,omitempty" json:"challengeTarget,omitempty"`

	// weekly_ranking
	Rank int `dynamodbav:"rank,omitempty" json:"rank,omitempty"`
}

// ActivitiesTable is the DynamoDB table name for activity events
const ActivitiesTable = "Activities"

// ActivityAuthorIndex is the GSI on (authorId, createdAt)
const ActivityAuthorIndex = "AuthorIndex"

// ActivityFeedIndex is the GSI on (feedScope, createdAt) used for the global feed
const ActivityFeedIndex = "FeedIndex"

// FeedScopeAll is the single partition value written to every activity's feedScope
const FeedScopeAll = "all"
