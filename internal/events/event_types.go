package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexpage/landing-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventFaqViewed       EventType = EventType(domain.MetricFaqViewed)
	EventTicketCreated   EventType = EventType(domain.MetricTicketCreated)
	EventChatStarted     EventType = EventType(domain.MetricChatStarted)
	EventChatMessageSent EventType = EventType(domain.MetricChatMessageSent)
)

// HelpDeskEvents lists every usage event the help desk emits.
var HelpDeskEvents = []EventType{EventFaqViewed, EventTicketCreated, EventChatStarted, EventChatMessageSent}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

// NewEvent stamps an id and time on a payload.
func NewEvent(eventType EventType, payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
