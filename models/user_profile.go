package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID             string   `dynamodbav:"userId" json:"userId"`
	FullName           string   `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Handle             string   `dynamodbav:"handle,omitempty" json:"handle,omitempty"`
	PhotoURL           string   `dynamodbav:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Bio                string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	FriendIds          []string `dynamodbav:"friendIds,stringset,omitempty" json:"friendIds,omitempty"`
	IncomingRequestIds []string `dynamodbav:"incomingRequestIds,stringset,omitempty" json:"incomingRequestIds,omitempty"`
	OutgoingRequestIds []string `dynamodbav:"outgoingRequestIds,stringset,omitempty" json:"outgoingRequestIds,omitempty"`
	CreatedAt          string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// ProfileSnapshot is the denormalized slice of a profile embedded into
// friend and request records so list screens never need a join.
type ProfileSnapshot struct {
	UserID   string `dynamodbav:"userId" json:"userId"`
	FullName string `dynamodbav:"fullName" json:"fullName"`
	Handle   string `dynamodbav:"handle" json:"handle"`
	PhotoURL string `dynamodbav:"photoUrl" json:"photoUrl"`
}

// Snapshot extracts the embeddable fields of a profile.
func (p UserProfile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		UserID:   p.UserID,
		FullName: p.FullName,
		Handle:   p.Handle,
		PhotoURL: p.PhotoURL,
	}
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
