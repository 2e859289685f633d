package routes

import (
	"spotcircle_server/controllers"
	"spotcircle_server/services"

	"github.com/gorilla/mux"
)

// RegisterSpotRoutes sets up routes for spot records under /api/spots
func RegisterSpotRoutes(r *mux.Router, spotService *services.SpotService) {
	controller := controllers.NewSpotController(spotService)

	spotRouter := r.PathPrefix("/api/spots").Subrouter()
	spotRouter.HandleFunc("", controller.HandleAddSpot).Methods("POST")
	spotRouter.HandleFunc("/{spotId}", controller.HandleGetSpot).Methods("GET")
}
