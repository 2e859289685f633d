package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"spotcircle_server/services"
)

// PhotoController hands out presigned URLs for photo upload and read.
type PhotoController struct {
	PhotoService *services.PhotoService
}

// NewPhotoController initializes the controller
func NewPhotoController(service *services.PhotoService) *PhotoController {
	return &PhotoController{PhotoService: service}
}

// HandleUploadURL - presigned PUT URL for a new photo
func (c *PhotoController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Kind     string `json:"kind"` // "profile" or "spot"
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.FileName == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Kind != "profile" && request.Kind != "spot" {
		writeError(w, http.StatusBadRequest, "Invalid photo kind")
		return
	}

	url, key, err := c.PhotoService.UploadURL(r.Context(), request.Kind, request.FileName, request.FileType)
	if err != nil {
		log.Printf("Presign upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// HandleReadURL - presigned GET URL for a stored photo key
func (c *PhotoController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Missing key")
		return
	}

	url, err := c.PhotoService.ReadURL(r.Context(), key)
	if err != nil {
		log.Printf("Presign read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate read URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
