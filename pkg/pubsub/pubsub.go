package pubsub

import (
	"context"
	"encoding/json"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "topology_status", "attack_graph")
	Type    string          `json:"type"`    // Event type (e.g., "loading", "ready", "reloaded", "error")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// TopologyStatus describes the lifecycle of the loaded topology
type TopologyStatus struct {
	State   string `json:"state"`   // loading, ready, reloaded, error
	Message string `json:"message"` // Human-readable status message
	Source  string `json:"source"`  // Topology file path, or "sample"
}

// AttackGraphData summarizes the currently served graph
type AttackGraphData struct {
	StatesCount int  `json:"states_count"`
	StepsCount  int  `json:"steps_count"`
	Complete    bool `json:"complete"` // True once the graph is fully built
}
