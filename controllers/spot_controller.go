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

// SpotController exposes spot records.
type SpotController struct {
	SpotService *services.SpotService
}

// NewSpotController initializes the controller
func NewSpotController(service *services.SpotService) *SpotController {
	return &SpotController{SpotService: service}
}

// HandleAddSpot - create a spot
func (c *SpotController) HandleAddSpot(w http.ResponseWriter, r *http.Request) {
	var spot models.Spot
	if err := json.NewDecoder(r.Body).Decode(&spot); err != nil || spot.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := c.SpotService.AddSpot(r.Context(), spot)
	if err != nil {
		log.Printf("Add spot failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add spot")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleGetSpot - fetch a spot by id
func (c *SpotController) HandleGetSpot(w http.ResponseWriter, r *http.Request) {
	spotID := mux.Vars(r)["spotId"]

	spot, err := c.SpotService.GetSpot(r.Context(), spotID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "Spot not found")
			return
		}
		log.Printf("Get spot failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch spot")
		return
	}
	writeJSON(w, http.StatusOK, spot)
}
