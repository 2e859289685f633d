package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"spotcircle_server/models"
)

// NewSocketServer initializes the Socket.IO server. Clients join a per-user
// room right after connecting; admitted notifications and resolved feed
// items are pushed into that room.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("Invalid userId in join request")
			return
		}
		c.Join(userRoom(userID))
		log.Printf("Socket %s joined room for user %s", c.ID(), userID)
	})

	server.OnEvent("/", "watchFeed", func(c socketio.Conn) {
		c.Join("feed")
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}

func userRoom(userID string) string {
	return "user:" + userID
}

// PushScheduler delivers admitted notifications to one user's room. It is
// fire-and-forget; nothing here reports delivery back.
type PushScheduler struct {
	Server *socketio.Server
	UserID string
}

func (p *PushScheduler) Schedule(id, title, body string, sound bool, badgeCount int) {
	p.Server.BroadcastToRoom("/", userRoom(p.UserID), "notification", map[string]interface{}{
		"id":         id,
		"title":      title,
		"body":       body,
		"sound":      sound,
		"badgeCount": badgeCount,
	})
}

// BroadcastFeedItem pushes a feed item whose spot details just resolved.
func BroadcastFeedItem(server *socketio.Server, item models.FeedItem) {
	server.BroadcastToRoom("/", "feed", "feedItemResolved", item)
}
