package routes

import (
	"spotcircle_server/controllers"
	"spotcircle_server/services"

	"github.com/gorilla/mux"
)

// RegisterActivityRoutes sets up routes for activity recording under /api/activities
func RegisterActivityRoutes(r *mux.Router, activityService *services.ActivityService) {
	controller := controllers.NewActivityController(activityService)

	activityRouter := r.PathPrefix("/api/activities").Subrouter()
	activityRouter.HandleFunc("", controller.HandleRecordActivity).Methods("POST")
}
