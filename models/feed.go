package models

// Feed sources.
const (
	FeedSourceFriends = "friends"
	FeedSourceGlobal  = "global"
)

// FeedItem is the display form of an activity event. SpotName and
// SpotAddress start as placeholders and are filled in once the referenced
// spot has been resolved.
type FeedItem struct {
	ActivityID   string  `json:"activityId"`
	Kind         string  `json:"kind"`
	AuthorID     string  `json:"authorId"`
	AuthorName   string  `json:"authorName"`
	CreatedAt    string  `json:"createdAt"`
	SpotID       string  `json:"spotId,omitempty"`
	SpotName     string  `json:"spotName,omitempty"`
	SpotAddress  string  `json:"spotAddress,omitempty"`
	SpotResolved bool    `json:"spotResolved"`
	Rating       float64 `json:"rating,omitempty"`
	Comment      string  `json:"comment,omitempty"`
	Category     string  `json:"category,omitempty"`
}
