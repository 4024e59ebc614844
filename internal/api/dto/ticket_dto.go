package dto

import (
	"time"

	"github.com/campus-it/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	ContactEmail  string  `json:"contact_email"`
	ContactPhone  string  `json:"contact_phone"`
	AttachmentRef *string `json:"attachment_ref,omitempty"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// CommentResponse represents one technician annotation.
type CommentResponse struct {
	ID         string    `json:"id"`
	Technician string    `json:"technician"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// TicketResponse provides full ticket info with its comment thread.
type TicketResponse struct {
	ID            string              `json:"id"`
	OwnerUsername string              `json:"owner_username"`
	Title         string              `json:"title"`
	Category      string              `json:"category"`
	Description   string              `json:"description"`
	ContactEmail  string              `json:"contact_email"`
	ContactPhone  string              `json:"contact_phone,omitempty"`
	AttachmentRef *string             `json:"attachment_ref,omitempty"`
	Status        domain.TicketStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	Comments      []CommentResponse   `json:"comments"`
}

// AttachmentUploadResponse carries the stored reference.
type AttachmentUploadResponse struct {
	Reference string `json:"reference"`
}
