package handlers

import (
	"log"
	"net/http"

	"github.com/agentfoundry/agent-directory/communication"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// HandleWebSocket streams directory events (new submissions, store edits)
// to a client until it disconnects.
func HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	sub, events, err := communication.Subscribe()
	if err != nil {
		log.Printf("Failed to subscribe to directory events: %v", err)
		return
	}
	defer communication.Unsubscribe(sub)

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case event := <-events:
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error writing to websocket: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Keep connection alive and handle disconnection
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("WebSocket connection closed: %v", err)
			break
		}
	}
}
