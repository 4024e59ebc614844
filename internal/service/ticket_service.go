package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campus-it/helpdesk/internal/domain"
	"github.com/campus-it/helpdesk/internal/events"
	"github.com/campus-it/helpdesk/internal/repository"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

// TicketService coordinates the ticket lifecycle: creation by students,
// annotation and status transitions by technicians.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title         string
	Category      string
	Description   string
	ContactEmail  string
	ContactPhone  string
	AttachmentRef *string
}

// TicketListInput describes listing parameters for the viewer.
type TicketListInput struct {
	Status *domain.TicketStatus
	Limit  int
	Offset int
}

// WeekBucket is one row of the weekly report: an ISO week key and the
// number of tickets created in it. Weeks with zero tickets are omitted.
type WeekBucket struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket files a new ticket for the owner, in state open. The created
// notification is fire-and-forget: a delivery failure never rolls back the
// row.
func (s *TicketService) CreateTicket(ctx context.Context, ownerUsername string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	category := strings.TrimSpace(input.Category)
	description := strings.TrimSpace(input.Description)
	contactEmail := strings.TrimSpace(input.ContactEmail)
	if title == "" || category == "" || description == "" || contactEmail == "" {
		return nil, apperrors.NewValidationError("title, category, description and contact email required", nil)
	}

	ticket := &domain.Ticket{
		OwnerUsername: ownerUsername,
		Title:         title,
		Category:      category,
		Description:   description,
		ContactEmail:  contactEmail,
		ContactPhone:  strings.TrimSpace(input.ContactPhone),
		AttachmentRef: input.AttachmentRef,
		Status:        domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketID:     ticket.ID,
		ContactEmail: ticket.ContactEmail,
		Actor:        ownerUsername,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// AddComment appends an immutable technician comment to an existing ticket.
func (s *TicketService) AddComment(ctx context.Context, technicianUsername, ticketID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		Technician: technicianUsername,
		Body:       body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCommented,
		TicketID:     ticket.ID,
		ContactEmail: ticket.ContactEmail,
		Actor:        technicianUsername,
		Payload: events.TicketCommentedPayload{
			CommentID:   comment.ID,
			Technician:  technicianUsername,
			BodyPreview: bodyPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ChangeStatus overwrites the ticket status. Any non-empty string is
// accepted, including moving a closed ticket back to open; concurrent
// writers race with last-write-wins.
func (s *TicketService) ChangeStatus(ctx context.Context, technicianUsername, ticketID string, newStatus domain.TicketStatus) error {
	if strings.TrimSpace(string(newStatus)) == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, newStatus); err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketStatusChanged,
		TicketID:     ticket.ID,
		ContactEmail: ticket.ContactEmail,
		Actor:        technicianUsername,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return nil
}

// CloseTicket is ChangeStatus to closed; it shares the status-changed
// notification rather than emitting a separate one.
func (s *TicketService) CloseTicket(ctx context.Context, technicianUsername, ticketID string) error {
	return s.ChangeStatus(ctx, technicianUsername, ticketID, domain.TicketStatusClosed)
}

// ListTickets returns tickets visible to the viewer, most-recent-first, each
// joined with its comments oldest-first. Students see only their own
// tickets; technicians see all.
func (s *TicketService) ListTickets(ctx context.Context, viewerUsername string, viewerRole domain.Role, input TicketListInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if viewerRole != domain.RoleTechnician {
		filter.Owner = &viewerUsername
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		comments, err := s.comments.ListByTicket(ctx, tickets[i].ID)
		if err != nil {
			return nil, err
		}
		tickets[i].Comments = comments
	}
	return tickets, nil
}

// GetTicket fetches a single ticket with comments, applying the same
// visibility rule as ListTickets.
func (s *TicketService) GetTicket(ctx context.Context, viewerUsername string, viewerRole domain.Role, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if viewerRole != domain.RoleTechnician && ticket.OwnerUsername != viewerUsername {
		return nil, apperrors.NewNotFound("ticket")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	ticket.Comments = comments
	return ticket, nil
}

// WeeklyReport buckets tickets by ISO week of their creation timestamp and
// counts per bucket, ascending by week. Weeks without tickets do not appear.
func (s *TicketService) WeeklyReport(ctx context.Context) ([]WeekBucket, error) {
	times, err := s.tickets.CreationTimes(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, t := range times {
		counts[isoWeekKey(t)]++
	}
	buckets := make([]WeekBucket, 0, len(counts))
	for week, count := range counts {
		buckets = append(buckets, WeekBucket{Week: week, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Week < buckets[j].Week })
	return buckets, nil
}

func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
