package domain

import "time"

// Comment is a technician annotation on a ticket. Comments are append-only
// and keep their original timestamp order.
type Comment struct {
	ID         string
	TicketID   string
	Technician string
	Body       string
	CreatedAt  time.Time
}
