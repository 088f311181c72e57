package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/agentfoundry/agent-directory/ai"
	"github.com/agentfoundry/agent-directory/communication"
	"github.com/agentfoundry/agent-directory/core"
	"github.com/agentfoundry/agent-directory/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListAgents returns every approved agent, in stored order. A missing or
// non-array store reads as an empty directory; corrupt data is a 500.
func ListAgents(agentStore *store.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		agents, err := agentStore.Load()
		if err != nil {
			if errors.Is(err, store.ErrNotArray) {
				c.JSON(http.StatusOK, []core.Agent{})
				return
			}
			log.Printf("Failed to load agents: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read agent data"})
			return
		}

		approved := make([]core.Agent, 0, len(agents))
		for _, agent := range agents {
			if agent.Approved {
				approved = append(approved, agent)
			}
		}
		c.JSON(http.StatusOK, approved)
	}
}

// GetAgent returns the first approved agent whose id exactly matches the
// path parameter. Unknown ids and unapproved agents both answer 404, so a
// caller cannot tell unlisted submissions apart from ids that never existed.
func GetAgent(agentStore *store.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// gin matches against the unescaped path, so the parameter is
		// already percent-decoded.
		id := c.Param("id")

		agents, err := agentStore.Load()
		if err != nil {
			log.Printf("Failed to load agents: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read agent data"})
			return
		}

		for _, agent := range agents {
			if agent.Approved && agent.ID == id {
				c.JSON(http.StatusOK, agent)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
	}
}

// SubmitAgent accepts a candidate record for moderation. The body must be a
// JSON object with a non-empty name; everything else is opaque payload.
// Approval is always forced off, whatever the client sent.
func SubmitAgent(agentStore *store.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
			return
		}

		var agent core.Agent
		if err := json.Unmarshal(body, &agent); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
			return
		}
		if agent.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "agent name is required"})
			return
		}

		agent.SetApproved(false)
		if agent.ID == "" {
			agent.SetID(uuid.New().String())
		}

		if err := agentStore.Append(agent); err != nil {
			log.Printf("Failed to store submitted agent %s: %v", agent.Name, err)
			if errors.Is(err, store.ErrCorrupt) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "agent data is corrupted, submission rejected"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save agent"})
			return
		}

		communication.Broadcast(communication.AgentEvent{
			Type:      communication.EventAgentSubmitted,
			AgentID:   agent.ID,
			AgentName: agent.Name,
			Timestamp: time.Now().Unix(),
		})

		if ai.Enabled() {
			go func(agent core.Agent) {
				review := ai.GetSubmissionReview(agent)
				if review.Summary != "" {
					log.Printf("Pre-screen for agent %s (%s): recommend=%v risks=%v summary=%s",
						agent.Name, agent.ID, review.Recommend, review.RiskFactors, review.Summary)
				}
			}(agent)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Agent submitted and awaiting approval",
			"agent":   agent,
		})
	}
}
