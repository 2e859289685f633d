package main

import (
	"log"
	"net/http"
	"os"

	"spotcircle_server/controllers"
	"spotcircle_server/models"
	"spotcircle_server/routes"
	"spotcircle_server/services"
	"spotcircle_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Socket.IO server delivers notifications and feed updates
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	friendService := &services.FriendService{Dynamo: dynamoService}
	activityService := &services.ActivityService{Dynamo: dynamoService}
	spotService := &services.SpotService{Dynamo: dynamoService}

	feedService := services.NewFeedService(dynamoService)
	feedService.OnItemResolved = func(item models.FeedItem) {
		socket.BroadcastFeedItem(socketServer, item)
	}

	stateStore := &services.DynamoKeyValueStore{Dynamo: dynamoService}
	notificationRegistry := services.NewNotificationRegistry(stateStore, func(userID string) services.NotificationScheduler {
		return &socket.PushScheduler{Server: socketServer, UserID: userID}
	}, models.DefaultNotificationSettings())

	photoService, err := services.NewPhotoService()
	if err != nil {
		log.Fatalf("Failed to initialize photo service: %v", err)
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterFriendRoutes(r, friendService)
	routes.RegisterFeedRoutes(r, feedService)
	routes.RegisterActivityRoutes(r, activityService)
	routes.RegisterSpotRoutes(r, spotService)
	routes.RegisterNotificationRoutes(r, notificationRegistry)
	routes.RegisterPhotoRoutes(r, photoService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-Id"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	err = http.ListenAndServe(":"+port, corsHandler)
	socketServer.Close()
	log.Fatal(err)
}
