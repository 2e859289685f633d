package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"spotcircle_server/services"
)

// FriendController exposes the friendship ledger over HTTP. Every mutating
// endpoint reports definitive success or failure; the ledger never leaves
// partial state behind a failure.
type FriendController struct {
	FriendService *services.FriendService
}

// NewFriendController initializes the controller
func NewFriendController(service *services.FriendService) *FriendController {
	return &FriendController{FriendService: service}
}

type friendRequestBody struct {
	UserID string `json:"userId"`
}

// HandleSendRequest - send a friend request to another user
func (c *FriendController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	senderID := currentUserID(r)
	if senderID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var request friendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := c.FriendService.SendFriendRequest(r.Context(), senderID, request.UserID)
	switch {
	case errors.Is(err, services.ErrSelfFriendRequest):
		writeError(w, http.StatusBadRequest, "Cannot send a friend request to yourself")
	case errors.Is(err, services.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "Profile not found")
	case err != nil:
		log.Printf("Send friend request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send friend request")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Friend request sent"})
	}
}

// HandleAcceptRequest - accept a pending friend request
func (c *FriendController) HandleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	c.handleDecision(w, r, c.FriendService.AcceptFriendRequest, "Friend request accepted")
}

// HandleRejectRequest - decline a pending friend request
func (c *FriendController) HandleRejectRequest(w http.ResponseWriter, r *http.Request) {
	c.handleDecision(w, r, c.FriendService.RejectFriendRequest, "Friend request rejected")
}

// HandleCancelRequest - withdraw a request the caller sent earlier
func (c *FriendController) HandleCancelRequest(w http.ResponseWriter, r *http.Request) {
	c.handleDecision(w, r, c.FriendService.CancelFriendRequest, "Friend request cancelled")
}

func (c *FriendController) handleDecision(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, callerID, otherID string) error, message string) {
	callerID := currentUserID(r)
	if callerID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var request friendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := action(r.Context(), callerID, request.UserID); err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Friend request decision failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update friend request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": message})
}

// HandleGetFriends - list the caller's friends
func (c *FriendController) HandleGetFriends(w http.ResponseWriter, r *http.Request) {
	c.handleList(w, r, func(ctx context.Context, userID string) (interface{}, error) {
		return c.FriendService.GetFriends(ctx, userID)
	})
}

// HandleGetIncomingRequests - list pending requests addressed to the caller
func (c *FriendController) HandleGetIncomingRequests(w http.ResponseWriter, r *http.Request) {
	c.handleList(w, r, func(ctx context.Context, userID string) (interface{}, error) {
		return c.FriendService.GetIncomingRequests(ctx, userID)
	})
}

// HandleGetOutgoingRequests - list pending requests the caller sent
func (c *FriendController) HandleGetOutgoingRequests(w http.ResponseWriter, r *http.Request) {
	c.handleList(w, r, func(ctx context.Context, userID string) (interface{}, error) {
		return c.FriendService.GetOutgoingRequests(ctx, userID)
	})
}

func (c *FriendController) handleList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID string) (interface{}, error)) {
	userID := currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	result, err := list(r.Context(), userID)
	if err != nil {
		log.Printf("Friend list read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
