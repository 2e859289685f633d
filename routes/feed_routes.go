package routes

import (
	"spotcircle_server/controllers"
	"spotcircle_server/services"

	"github.com/gorilla/mux"
)

// RegisterFeedRoutes sets up routes for the activity feed under /api/feed
func RegisterFeedRoutes(r *mux.Router, feedService *services.FeedService) {
	controller := controllers.NewFeedController(feedService)

	feedRouter := r.PathPrefix("/api/feed").Subrouter()
	feedRouter.HandleFunc("", controller.HandleLoadFeed).Methods("GET")
	feedRouter.HandleFunc("/search", controller.HandleSearchFeed).Methods("GET")
	feedRouter.HandleFunc("/cache/clear", controller.HandleClearCache).Methods("POST")
}
