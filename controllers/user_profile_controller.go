package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"spotcircle_server/models"
	"spotcircle_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController exposes profile CRUD. The friendship set fields on
// a profile are owned by the ledger and not writable here.
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController initializes the controller
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// HandleAddProfile - create a profile
func (c *UserProfileController) HandleAddProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil || profile.UserID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := c.UserProfileService.AddUserProfile(r.Context(), profile)
	if err != nil {
		log.Printf("Add profile failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add profile")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleGetProfile - fetch a profile by id
func (c *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Get profile failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleUpdateProfile - update display fields of a profile
func (c *UserProfileController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := c.UserProfileService.UpdateUserProfile(r.Context(), userID, updates)
	if err != nil {
		log.Printf("Update profile failed: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteProfile - delete a profile
func (c *UserProfileController) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := c.UserProfileService.DeleteUserProfile(r.Context(), userID); err != nil {
		log.Printf("Delete profile failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted successfully", "userId": userID})
}
