package routes

import (
	"spotcircle_server/controllers"
	"spotcircle_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for the notification gate under /api/notifications
func RegisterNotificationRoutes(r *mux.Router, registry *services.NotificationRegistry) {
	controller := controllers.NewNotificationController(registry)

	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()
	notificationRouter.HandleFunc("/events", controller.HandleSubmitEvent).Methods("POST")
	notificationRouter.HandleFunc("/events/batch", controller.HandleSubmitBatch).Methods("POST")
	notificationRouter.HandleFunc("/pending/process", controller.HandleProcessPending).Methods("POST")
	notificationRouter.HandleFunc("/settings", controller.HandleGetSettings).Methods("GET")
	notificationRouter.HandleFunc("/settings", controller.HandleUpdateSettings).Methods("PUT")
	notificationRouter.HandleFunc("/history/reset", controller.HandleResetHistory).Methods("POST")
}
