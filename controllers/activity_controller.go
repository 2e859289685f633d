package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"spotcircle_server/models"
	"spotcircle_server/services"
)

// ActivityController records activity events.
type ActivityController struct {
	ActivityService *services.ActivityService
}

// NewActivityController initializes the controller
func NewActivityController(service *services.ActivityService) *ActivityController {
	return &ActivityController{ActivityService: service}
}

// HandleRecordActivity - persist a new activity event
func (c *ActivityController) HandleRecordActivity(w http.ResponseWriter, r *http.Request) {
	authorID := currentUserID(r)
	if authorID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var event models.ActivityEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.Kind == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	event.AuthorID = authorID

	recorded, err := c.ActivityService.RecordActivity(r.Context(), event)
	if err != nil {
		log.Printf("Record activity failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record activity")
		return
	}
	writeJSON(w, http.StatusCreated, recorded)
}
