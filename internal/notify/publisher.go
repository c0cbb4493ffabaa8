// Package notify announces completed menu ingestions to downstream
// consumers.
package notify

import (
	"context"
	"time"
)

// Event describes one completed ingestion.
type Event struct {
	RestaurantID   string    `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Categories     int       `json:"categories"`
	Items          int       `json:"items"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Publisher delivers completion events.
type Publisher interface {
	// PublishCompletion sends the event and returns the broker's message
	// id.
	PublishCompletion(ctx context.Context, event Event) (string, error)
}

// NoOpPublisher drops events. Used when no topic is configured.
type NoOpPublisher struct{}

// PublishCompletion for NoOpPublisher does nothing.
func (n *NoOpPublisher) PublishCompletion(_ context.Context, _ Event) (string, error) {
	return "", nil
}
