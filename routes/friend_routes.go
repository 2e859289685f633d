package routes

import (
	"spotcircle_server/controllers"
	"spotcircle_server/services"

	"github.com/gorilla/mux"
)

// RegisterFriendRoutes sets up routes for friendship operations under /api/friends
func RegisterFriendRoutes(r *mux.Router, friendService *services.FriendService) {
	controller := controllers.NewFriendController(friendService)

	friendRouter := r.PathPrefix("/api/friends").Subrouter()
	friendRouter.HandleFunc("/requests", controller.HandleSendRequest).Methods("POST")
	friendRouter.HandleFunc("/requests/accept", controller.HandleAcceptRequest).Methods("POST")
	friendRouter.HandleFunc("/requests/reject", controller.HandleRejectRequest).Methods("POST")
	friendRouter.HandleFunc("/requests/cancel", controller.HandleCancelRequest).Methods("POST")
	friendRouter.HandleFunc("/requests/incoming", controller.HandleGetIncomingRequests).Methods("GET")
	friendRouter.HandleFunc("/requests/outgoing", controller.HandleGetOutgoingRequests).Methods("GET")
	friendRouter.HandleFunc("", controller.HandleGetFriends).Methods("GET")
}
