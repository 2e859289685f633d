package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"spotcircle_server/models"
	"spotcircle_server/services"
)

// NotificationController exposes the notification admission gate and its
// per-user settings.
type NotificationController struct {
	Registry *services.NotificationRegistry
}

// NewNotificationController initializes the controller
func NewNotificationController(registry *services.NotificationRegistry) *NotificationController {
	return &NotificationController{Registry: registry}
}

// HandleSubmitEvent - run one candidate event through the gate
func (c *NotificationController) HandleSubmitEvent(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var event models.ActivityEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	admitted := c.Registry.For(r.Context(), userID).Notify(r.Context(), event)
	writeJSON(w, http.StatusOK, map[string]interface{}{"admitted": admitted})
}

// HandleSubmitBatch - run a batch of candidates through the gate
func (c *NotificationController) HandleSubmitBatch(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var events []models.ActivityEvent
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	admitted := c.Registry.For(r.Context(), userID).ProcessBatch(r.Context(), events)
	writeJSON(w, http.StatusOK, map[string]interface{}{"admitted": admitted})
}

// HandleProcessPending - replay the pending queue once, now
func (c *NotificationController) HandleProcessPending(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	c.Registry.For(r.Context(), userID).ProcessPendingNotifications(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleGetSettings - read the caller's notification policy
func (c *NotificationController) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, c.Registry.For(r.Context(), userID).Settings())
}

// HandleUpdateSettings - replace the caller's notification policy
func (c *NotificationController) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var settings models.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c.Registry.For(r.Context(), userID).UpdateSettings(r.Context(), settings)
	log.Printf("Notification settings updated for %s", userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleResetHistory - explicit reset of persisted notification state
func (c *NotificationController) HandleResetHistory(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	c.Registry.For(r.Context(), userID).ResetHistory(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
