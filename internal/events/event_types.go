package events

import (
	"time"

	"github.com/campus-it/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketCommented     EventType = "ticket_commented"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services. ContactEmail is the
// ticket's contact address, carried so notification handlers need no
// storage access.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketID     string      `json:"ticket_id"`
	ContactEmail string      `json:"contact_email"`
	Actor        string      `json:"actor"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	CommentID   string `json:"comment_id"`
	Technician  string `json:"technician"`
	BodyPreview string `json:"body_preview"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}
