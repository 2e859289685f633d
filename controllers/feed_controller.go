package controllers

import (
	"errors"
	"log"
	"net/http"

	"spotcircle_server/models"
	"spotcircle_server/services"
)

// FeedController exposes the activity feed over HTTP.
type FeedController struct {
	FeedService *services.FeedService
}

// NewFeedController initializes the controller
func NewFeedController(service *services.FeedService) *FeedController {
	return &FeedController{FeedService: service}
}

// HandleLoadFeed - load the feed for the caller. Unauthenticated callers
// get the global pool; a global-path timeout surfaces as 504 with an empty
// item list so the client can offer a manual retry.
func (c *FeedController) HandleLoadFeed(w http.ResponseWriter, r *http.Request) {
	viewerID := currentUserID(r)
	if r.URL.Query().Get("source") == models.FeedSourceGlobal {
		viewerID = ""
	}

	items, source, err := c.FeedService.LoadFeed(r.Context(), viewerID)
	if err != nil {
		if errors.Is(err, services.ErrFeedTimeout) {
			writeJSON(w, http.StatusGatewayTimeout, map[string]interface{}{
				"error":  "Feed load timed out",
				"source": source,
				"items":  []models.FeedItem{},
			})
			return
		}
		log.Printf("Feed load failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load feed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source": source,
		"items":  items,
	})
}

// HandleSearchFeed - filter the already-loaded items; never hits the store
func (c *FeedController) HandleSearchFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items := c.FeedService.FilterItems(query)
	if items == nil {
		items = []models.FeedItem{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// HandleClearCache - wipe the spot details cache (app backgrounding)
func (c *FeedController) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	c.FeedService.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Cache cleared"})
}
