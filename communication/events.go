package communication

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// Event types pushed to live-feed clients. Each type doubles as its subject
// on the embedded broker.
const (
	EventAgentSubmitted = "AGENT_SUBMITTED"
	EventStoreChanged   = "STORE_CHANGED"
)

// AgentEvent is one entry on the directory's live feed. AgentID and
// AgentName are empty for store-level events.
type AgentEvent struct {
	Type      string `json:"type"`
	AgentID   string `json:"agentId,omitempty"`
	AgentName string `json:"agentName,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Broadcast publishes an event on the broker under its type as the subject.
func Broadcast(event AgentEvent) {
	if BrokerInstance == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error encoding %s event: %v", event.Type, err)
		return
	}
	if err := BrokerInstance.conn.Publish(event.Type, data); err != nil {
		log.Printf("Error publishing %s event: %v", event.Type, err)
	}
}

// Subscribe registers a live-feed listener for every event type and returns
// its delivery channel. The channel is buffered; a listener that falls
// behind drops events rather than backing the broker up. The channel is
// never closed; callers release the listener with Unsubscribe.
func Subscribe() (*nats.Subscription, chan AgentEvent, error) {
	if BrokerInstance == nil {
		return nil, nil, errors.New("event broker is not running")
	}

	events := make(chan AgentEvent, 16)
	sub, err := BrokerInstance.conn.Subscribe("*", func(msg *nats.Msg) {
		var event AgentEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("Error decoding event on %s: %v", msg.Subject, err)
			return
		}
		select {
		case events <- event:
		default:
		}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("subscribing to directory events: %w", err)
	}
	return sub, events, nil
}

// Unsubscribe drops a live-feed listener.
func Unsubscribe(sub *nats.Subscription) {
	if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		log.Printf("Error unsubscribing from directory events: %v", err)
	}
}
