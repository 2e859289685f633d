package models

// Request directions as seen by the record's owner.
const (
	RequestDirectionIncoming = "incoming"
	RequestDirectionOutgoing = "outgoing"
)

// FriendRecord is one side of a mirrored friendship edge, stored under the
// owning user's partition with the other party's profile snapshot embedded.
// Both mirrors share the same createdAt.
type FriendRecord struct {
	UserID         string `dynamodbav:"userId" json:"userId"`
	FriendID       string `dynamodbav:"friendId" json:"friendId"`
	FriendName     string `dynamodbav:"friendName,omitempty" json:"friendName"`
	FriendHandle   string `dynamodbav:"friendHandle,omitempty" json:"friendHandle"`
	FriendPhotoURL string `dynamodbav:"friendPhotoUrl,omitempty" json:"friendPhotoUrl"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// FriendRequestRecord is one side of a pending friend request. The incoming
// record embeds the sender's snapshot; the outgoing record carries ids only.
type FriendRequestRecord struct {
	UserID         string `dynamodbav:"userId" json:"userId"`
	OtherUserID    string `dynamodbav:"otherUserId" json:"otherUserId"`
	Direction      string `dynamodbav:"direction" json:"direction"`
	SenderName     string `dynamodbav:"senderName,omitempty" json:"senderName,omitempty"`
	SenderHandle   string `dynamodbav:"senderHandle,omitempty" json:"senderHandle,omitempty"`
	SenderPhotoURL string `dynamodbav:"senderPhotoUrl,omitempty" json:"senderPhotoUrl,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// FriendsTable holds mirrored friend records keyed by (userId, friendId)
const FriendsTable = "Friends"

// FriendRequestsTable holds pending request records keyed by (userId, otherUserId)
const FriendRequestsTable = "FriendRequests"
