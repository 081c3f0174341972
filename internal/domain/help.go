package domain

import "time"

// Faq is a help-desk question/answer entry, distinct from the per-site FAQ list.
type Faq struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// HelpTicketStatus enumerates contact ticket states.
type HelpTicketStatus string

const (
	HelpTicketOpen   HelpTicketStatus = "open"
	HelpTicketClosed HelpTicketStatus = "closed"
)

// HelpTicket is a contact request submitted from the help widget.
type HelpTicket struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Message   string           `json:"message"`
	Status    HelpTicketStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatSession groups the messages of one help-widget conversation.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessage is one turn of a chat session.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Tokens    *int      `json:"tokens,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MetricEventType names a recorded help-desk usage event.
type MetricEventType string

const (
	MetricFaqViewed       MetricEventType = "faq_viewed"
	MetricTicketCreated   MetricEventType = "ticket_created"
	MetricChatStarted     MetricEventType = "chat_started"
	MetricChatMessageSent MetricEventType = "chat_message_sent"
)

// MetricEvent is an append-only usage record.
type MetricEvent struct {
	ID        string          `json:"id"`
	Type      MetricEventType `json:"type"`
	Data      map[string]any  `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

// MetricsSummary aggregates recorded usage.
type MetricsSummary struct {
	TotalFaqViews int64 `json:"totalFaqViews"`
	TotalTickets  int64 `json:"totalTickets"`
	TotalChats    int64 `json:"totalChats"`
	TotalMessages int64 `json:"totalMessages"`
}
