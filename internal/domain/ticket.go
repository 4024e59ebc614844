package domain

import "time"

// TicketStatus is the lifecycle state of a ticket. Beyond the two well-known
// values technicians may set arbitrary status strings.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is the aggregate for support requests. A ticket is owned by the
// student who filed it and is never deleted.
type Ticket struct {
	ID            string
	OwnerUsername string
	Title         string
	Category      string
	Description   string
	ContactEmail  string
	ContactPhone  string
	AttachmentRef *string
	Status        TicketStatus
	CreatedAt     time.Time
	Comments      []Comment
}
