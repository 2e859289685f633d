package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"spotcircle_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrSelfFriendRequest is returned when a user targets themselves.
	ErrSelfFriendRequest = errors.New("cannot send a friend request to yourself")

	// ErrProfileNotFound is returned when a required profile snapshot
	// could not be resolved before building the write batch.
	ErrProfileNotFound = errors.New("profile not found")
)

// FriendService drives the friend-request state machine. Every transition
// is exactly one TransactWriteItems batch that keeps four structures in
// step: both pending-request (or friend) records and both profile set
// fields. Nothing is written before the batch, so any upstream failure
// aborts with zero mutation.
//
// There is no conditional write guarding the batch: two operations racing
// on the same pair resolve as last-committed-wins per item. The protocol
// converges but is not linearizable.
type FriendService struct {
	Dynamo DynamoAPI
}

// SendFriendRequest moves the (sender, recipient) pair from no relation to
// a pending request visible on both sides.
func (fs *FriendService) SendFriendRequest(ctx context.Context, senderID, recipientID string) error {
	if senderID == recipientID {
		return ErrSelfFriendRequest
	}

	sender, err := fs.getProfile(ctx, senderID)
	if err != nil {
		return err
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	snapshot := sender.Snapshot()

	incoming := models.FriendRequestRecord{
		UserID:         recipientID,
		OtherUserID:    senderID,
		Direction:      models.RequestDirectionIncoming,
		SenderName:     snapshot.FullName,
		SenderHandle:   snapshot.Handle,
		SenderPhotoURL: snapshot.PhotoURL,
		CreatedAt:      createdAt,
	}
	outgoing := models.FriendRequestRecord{
		UserID:      senderID,
		OtherUserID: recipientID,
		Direction:   models.RequestDirectionOutgoing,
		CreatedAt:   createdAt,
	}

	incomingPut, err := putRecord(models.FriendRequestsTable, incoming)
	if err != nil {
		return err
	}
	outgoingPut, err := putRecord(models.FriendRequestsTable, outgoing)
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{
		incomingPut,
		outgoingPut,
		addToSet(recipientID, "incomingRequestIds", senderID),
		addToSet(senderID, "outgoingRequestIds", recipientID),
	}

	if err := fs.Dynamo.TransactWriteItems(ctx, items); err != nil {
		return fmt.Errorf("send friend request %s -> %s: %w", senderID, recipientID, err)
	}

	log.Printf("Friend request sent: %s -> %s", senderID, recipientID)
	return nil
}

// AcceptFriendRequest turns a pending request into a mirrored friendship.
// Both profile snapshots are fetched before the batch is built; either
// fetch failing aborts the whole operation with no writes.
func (fs *FriendService) AcceptFriendRequest(ctx context.Context, acceptorID, requesterID string) error {
	acceptor, err := fs.getProfile(ctx, acceptorID)
	if err != nil {
		return err
	}
	requester, err := fs.getProfile(ctx, requesterID)
	if err != nil {
		return err
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	acceptorSnap := acceptor.Snapshot()
	requesterSnap := requester.Snapshot()

	acceptorSide := models.FriendRecord{
		UserID:         acceptorID,
		FriendID:       requesterID,
		FriendName:     requesterSnap.FullName,
		FriendHandle:   requesterSnap.Handle,
		FriendPhotoURL: requesterSnap.PhotoURL,
		CreatedAt:      createdAt,
	}
	requesterSide := models.FriendRecord{
		UserID:         requesterID,
		FriendID:       acceptorID,
		FriendName:     acceptorSnap.FullName,
		FriendHandle:   acceptorSnap.Handle,
		FriendPhotoURL: acceptorSnap.PhotoURL,
		CreatedAt:      createdAt,
	}

	acceptorPut, err := putRecord(models.FriendsTable, acceptorSide)
	if err != nil {
		return err
	}
	requesterPut, err := putRecord(models.FriendsTable, requesterSide)
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{
		acceptorPut,
		requesterPut,
		deleteRequestRecord(acceptorID, requesterID),
		deleteRequestRecord(requesterID, acceptorID),
		befriendProfile(acceptorID, requesterID),
		befriendProfile(requesterID, acceptorID),
	}

	if err := fs.Dynamo.TransactWriteItems(ctx, items); err != nil {
		return fmt.Errorf("accept friend request %s <- %s: %w", acceptorID, requesterID, err)
	}

	log.Printf("Friend request accepted: %s <-> %s", acceptorID, requesterID)
	return nil
}

// RejectFriendRequest declines a pending request from the recipient's side.
func (fs *FriendService) RejectFriendRequest(ctx context.Context, recipientID, requesterID string) error {
	if err := fs.clearRequestPair(ctx, recipientID, requesterID); err != nil {
		return fmt.Errorf("reject friend request %s <- %s: %w", recipientID, requesterID, err)
	}
	log.Printf("Friend request rejected: %s <- %s", recipientID, requesterID)
	return nil
}

// CancelFriendRequest withdraws a pending request from the sender's side.
func (fs *FriendService) CancelFriendRequest(ctx context.Context, senderID, recipientID string) error {
	if err := fs.clearRequestPair(ctx, senderID, recipientID); err != nil {
		return fmt.Errorf("cancel friend request %s -> %s: %w", senderID, recipientID, err)
	}
	log.Printf("Friend request cancelled: %s -> %s", senderID, recipientID)
	return nil
}

// clearRequestPair removes both pending records and both set memberships in
// one batch. Delete-of-missing and DELETE-of-absent-element are no-ops at
// the store, so the cleanup is idempotent.
func (fs *FriendService) clearRequestPair(ctx context.Context, a, b string) error {
	items := []types.TransactWriteItem{
		deleteRequestRecord(a, b),
		deleteRequestRecord(b, a),
		removeFromRequestSets(a, b),
		removeFromRequestSets(b, a),
	}
	return fs.Dynamo.TransactWriteItems(ctx, items)
}

// GetFriends lists the mirrored friend records stored under a user.
func (fs *FriendService) GetFriends(ctx context.Context, userID string) ([]models.FriendRecord, error) {
	items, err := fs.queryByUser(ctx, models.FriendsTable, userID, "")
	if err != nil {
		return nil, err
	}

	var friends []models.FriendRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &friends); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friend records: %w", err)
	}
	return friends, nil
}

// GetIncomingRequests lists pending requests addressed to a user.
func (fs *FriendService) GetIncomingRequests(ctx context.Context, userID string) ([]models.FriendRequestRecord, error) {
	return fs.getRequests(ctx, userID, models.RequestDirectionIncoming)
}

// GetOutgoingRequests lists pending requests a user has sent.
func (fs *FriendService) GetOutgoingRequests(ctx context.Context, userID string) ([]models.FriendRequestRecord, error) {
	return fs.getRequests(ctx, userID, models.RequestDirectionOutgoing)
}

func (fs *FriendService) getRequests(ctx context.Context, userID, direction string) ([]models.FriendRequestRecord, error) {
	items, err := fs.queryByUser(ctx, models.FriendRequestsTable, userID, direction)
	if err != nil {
		return nil, err
	}

	var requests []models.FriendRequestRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request records: %w", err)
	}
	return requests, nil
}

func (fs *FriendService) queryByUser(ctx context.Context, tableName, userID, direction string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		KeyConditionExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	}
	if direction != "" {
		input.FilterExpression = aws.String("direction = :dir")
		input.ExpressionAttributeValues[":dir"] = &types.AttributeValueMemberS{Value: direction}
	}
	return fs.Dynamo.QueryItemsWithQueryInput(ctx, input)
}

func (fs *FriendService) getProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := fs.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
		}
		return nil, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, nil
}

// --- transact item builders ---

func putRecord(tableName string, record interface{}) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal record for '%s': %w", tableName, err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(tableName),
			Item:      item,
		},
	}, nil
}

func deleteRequestRecord(userID, otherUserID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(models.FriendRequestsTable),
			Key: map[string]types.AttributeValue{
				"userId":      &types.AttributeValueMemberS{Value: userID},
				"otherUserId": &types.AttributeValueMemberS{Value: otherUserID},
			},
		},
	}
}

func addToSet(userID, field, value string) types.TransactWriteItem {
	return profileUpdate(userID,
		fmt.Sprintf("ADD %s :val", field),
		map[string]types.AttributeValue{
			":val": &types.AttributeValueMemberSS{Value: []string{value}},
		})
}

// befriendProfile adds the other id to friendIds and clears it out of both
// request sets in a single update action.
func befriendProfile(userID, otherID string) types.TransactWriteItem {
	return profileUpdate(userID,
		"ADD friendIds :other DELETE incomingRequestIds :other, outgoingRequestIds :other",
		map[string]types.AttributeValue{
			":other": &types.AttributeValueMemberSS{Value: []string{otherID}},
		})
}

func removeFromRequestSets(userID, otherID string) types.TransactWriteItem {
	return profileUpdate(userID,
		"DELETE incomingRequestIds :other, outgoingRequestIds :other",
		map[string]types.AttributeValue{
			":other": &types.AttributeValueMemberSS{Value: []string{otherID}},
		})
}

func profileUpdate(userID, expression string, values map[string]types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(models.UserProfilesTable),
			Key: map[string]types.AttributeValue{
				"userId": &types.AttributeValueMemberS{Value: userID},
			},
			UpdateExpression:          aws.String(expression),
			ExpressionAttributeValues: values,
		},
	}
}
