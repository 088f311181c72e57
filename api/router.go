package api

import (
	"github.com/agentfoundry/agent-directory/api/handlers"
	"github.com/agentfoundry/agent-directory/store"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface onto the given store.
func NewRouter(agentStore *store.FileStore) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.GET("/agents", handlers.ListAgents(agentStore))
		api.GET("/agents/:id", handlers.GetAgent(agentStore))
		api.POST("/submit-agent", handlers.SubmitAgent(agentStore))
		api.GET("/ws", handlers.HandleWebSocket)
	}

	return router
}
