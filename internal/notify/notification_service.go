package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-it/helpdesk/internal/events"
)

// NotificationService emails the ticket's contact address on lifecycle
// events. Delivery is best-effort: failures are logged and swallowed so a
// broken relay can never fail the mutating operation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to ticket lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketCommented, n.handleTicketCommented)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketCreatedPayload)
	subject := fmt.Sprintf("Ticket received: %s", payload.Title)
	body := fmt.Sprintf(
		"Your support ticket %q (%s) has been received and is now open.\nTicket ID: %s\n",
		payload.Title, payload.Category, event.TicketID)
	n.send(event, subject, body)
	return nil
}

func (n *NotificationService) handleTicketCommented(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketCommentedPayload)
	subject := "New comment on your support ticket"
	body := fmt.Sprintf(
		"Technician %s commented on ticket %s:\n\n%s\n",
		payload.Technician, event.TicketID, payload.BodyPreview)
	n.send(event, subject, body)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketStatusChangedPayload)
	subject := fmt.Sprintf("Your support ticket is now %s", payload.NewStatus)
	body := fmt.Sprintf(
		"The status of ticket %s changed from %q to %q.\n",
		event.TicketID, payload.OldStatus, payload.NewStatus)
	n.send(event, subject, body)
	return nil
}

func (n *NotificationService) send(event events.Event, subject, body string) {
	if event.ContactEmail == "" {
		return
	}
	if err := n.mailer.Send(event.ContactEmail, subject, body); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
