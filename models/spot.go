package models

// Spot is a reviewable location.
type Spot struct {
	SpotID   string `dynamodbav:"spotId" json:"spotId"`
	Name     string `dynamodbav:"name" json:"name"`
	Address  string `dynamodbav:"address,omitempty" json:"address,omitempty"`
	PhotoURL string `dynamodbav:"photoUrl,omitempty" json:"photoUrl,omitempty"`
}

// SpotsTable is the DynamoDB table name for spots
const SpotsTable = "Spots"
