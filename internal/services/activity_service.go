package services

import (
	"encoding/json"
	"log"
	"time"

	"majalah/internal/models"
	"majalah/internal/repositories"
	"majalah/pkg/rabbitmq"
)

// EventPublisher publishes a message to a named queue.
type EventPublisher interface {
	Publish(queue string, body []byte) error
}

// ActivityEvent is the wire form of an activity log entry on the queue.
type ActivityEvent struct {
	UserID   string    `json:"user_id"`
	Action   string    `json:"action"`
	TargetID string    `json:"target_id,omitempty"`
	Details  string    `json:"details,omitempty"`
	At       time.Time `json:"at"`
}

// ActivityService records platform activity. Logging is best-effort: events
// go to the activity queue when a publisher is up, fall back to a direct
// store write otherwise, and failures are logged but never propagated.
type ActivityService struct {
	repo   repositories.ActivityRepository
	events EventPublisher
}

// NewActivityService creates a new ActivityService. Either argument may be
// nil.
func NewActivityService(repo repositories.ActivityRepository, events EventPublisher) *ActivityService {
	return &ActivityService{
		repo:   repo,
		events: events,
	}
}

// Log records an activity. It never fails the caller.
func (s *ActivityService) Log(userID, action, targetID, details string) {
	event := ActivityEvent{
		UserID:   userID,
		Action:   action,
		TargetID: targetID,
		Details:  details,
		At:       time.Now(),
	}

	if s.events != nil {
		body, err := json.Marshal(event)
		if err == nil {
			if err := s.events.Publish(rabbitmq.ActivityQueue, body); err == nil {
				return
			} else {
				log.Printf("Warning: failed to publish activity event %s: %v", action, err)
			}
		} else {
			log.Printf("Warning: failed to marshal activity event %s: %v", action, err)
		}
	}

	if err := s.Record(event); err != nil {
		log.Printf("Warning: failed to log activity %s: %v", action, err)
	}
}

// Record persists an activity event. Used by the queue consumer and as the
// direct-write fallback.
func (s *ActivityService) Record(event ActivityEvent) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Create(&models.ActivityLog{
		UserID:   event.UserID,
		Action:   event.Action,
		TargetID: event.TargetID,
		Details:  event.Details,
	})
}
