package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-it/helpdesk/internal/domain"
	"github.com/campus-it/helpdesk/internal/events"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

func newTestTicketService(dispatcher events.Dispatcher) (*TicketService, *fakeTicketRepo, *fakeCommentRepo) {
	tickets := newFakeTicketRepo()
	comments := newFakeCommentRepo()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		CommentRepo: comments,
		Dispatcher:  dispatcher,
	})
	return svc, tickets, comments
}

func validTicketInput() TicketCreateInput {
	return TicketCreateInput{
		Title:        "Projector broken",
		Category:     "hardware",
		Description:  "Lecture hall projector shows no image",
		ContactEmail: "student@campus.example",
		ContactPhone: "555-0100",
	}
}

func TestCreateTicketStartsOpenAndNotifies(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc, tickets, _ := newTestTicketService(dispatcher)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "alice", ticket.OwnerUsername)
	assert.NotEmpty(t, ticket.ID)

	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	assert.Equal(t, ticket.ID, published[0].TicketID)
	assert.Equal(t, "student@campus.example", published[0].ContactEmail)
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	for name, mutate := range map[string]func(*TicketCreateInput){
		"missing title":       func(in *TicketCreateInput) { in.Title = "  " },
		"missing category":    func(in *TicketCreateInput) { in.Category = "" },
		"missing description": func(in *TicketCreateInput) { in.Description = "" },
		"missing email":       func(in *TicketCreateInput) { in.ContactEmail = "" },
	} {
		input := validTicketInput()
		mutate(&input)
		_, err := svc.CreateTicket(ctx, "alice", input)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), name)
	}

	// phone stays optional
	input := validTicketInput()
	input.ContactPhone = ""
	_, err := svc.CreateTicket(ctx, "alice", input)
	assert.NoError(t, err)
}

func TestCreateTicketSurvivesNotificationFailure(t *testing.T) {
	svc, tickets, _ := newTestTicketService(failingDispatcher{})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, stored.ID)
}

func TestAddCommentOrdering(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	for _, body := range []string{"first look", "ordered the part", "part installed"} {
		_, err := svc.AddComment(ctx, "tech1", ticket.ID, body)
		require.NoError(t, err)
	}

	got, err := svc.GetTicket(ctx, "tech1", domain.RoleTechnician, ticket.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 3)
	assert.Equal(t, "first look", got.Comments[0].Body)
	assert.Equal(t, "ordered the part", got.Comments[1].Body)
	assert.Equal(t, "part installed", got.Comments[2].Body)
	assert.True(t, got.Comments[0].CreatedAt.Before(got.Comments[2].CreatedAt))
}

func TestAddCommentUnknownTicket(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})

	_, err := svc.AddComment(context.Background(), "tech1", "missing-id", "hello")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAddCommentSurvivesNotificationFailure(t *testing.T) {
	svc, _, comments := newTestTicketService(failingDispatcher{})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, "tech1", ticket.ID, "checking the cabling")
	require.NoError(t, err)

	stored, err := comments.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, comment.ID, stored[0].ID)
}

func TestChangeStatusPersists(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc, tickets, _ := newTestTicketService(dispatcher)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	require.NoError(t, svc.ChangeStatus(ctx, "tech1", ticket.ID, domain.TicketStatus("in_progress")))

	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatus("in_progress"), stored.Status)

	published := dispatcher.published()
	last := published[len(published)-1]
	assert.Equal(t, events.EventTicketStatusChanged, last.Type)
	payload, ok := last.Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusOpen, payload.OldStatus)
	assert.Equal(t, domain.TicketStatus("in_progress"), payload.NewStatus)
}

func TestChangeStatusAllowsReopen(t *testing.T) {
	svc, tickets, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	require.NoError(t, svc.CloseTicket(ctx, "tech1", ticket.ID))
	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, stored.Status)

	require.NoError(t, svc.ChangeStatus(ctx, "tech1", ticket.ID, domain.TicketStatusOpen))
	stored, err = tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
}

func TestChangeStatusValidation(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	err = svc.ChangeStatus(ctx, "tech1", ticket.ID, domain.TicketStatus("   "))
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	err = svc.ChangeStatus(ctx, "tech1", "missing-id", domain.TicketStatusClosed)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCloseTicketEmitsStatusChange(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc, _, _ := newTestTicketService(dispatcher)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	require.NoError(t, svc.CloseTicket(ctx, "tech1", ticket.ID))

	published := dispatcher.published()
	last := published[len(published)-1]
	assert.Equal(t, events.EventTicketStatusChanged, last.Type)
	payload, ok := last.Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusClosed, payload.NewStatus)
}

func TestListTicketsScopedToOwnerForStudents(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, "bob", validTicketInput())
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	aliceView, err := svc.ListTickets(ctx, "alice", domain.RoleStudent, TicketListInput{})
	require.NoError(t, err)
	require.Len(t, aliceView, 2)
	for _, ticket := range aliceView {
		assert.Equal(t, "alice", ticket.OwnerUsername)
	}

	techView, err := svc.ListTickets(ctx, "tech1", domain.RoleTechnician, TicketListInput{})
	require.NoError(t, err)
	assert.Len(t, techView, 3)

	// most recent first
	assert.True(t, techView[0].CreatedAt.After(techView[2].CreatedAt))
}

func TestListTicketsStatusFilter(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)
	require.NoError(t, svc.CloseTicket(ctx, "tech1", first.ID))

	closed := domain.TicketStatusClosed
	listed, err := svc.ListTickets(ctx, "alice", domain.RoleStudent, TicketListInput{Status: &closed})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)
}

func TestGetTicketHiddenFromOtherStudents(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "alice", validTicketInput())
	require.NoError(t, err)

	_, err = svc.GetTicket(ctx, "mallory", domain.RoleStudent, ticket.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	owned, err := svc.GetTicket(ctx, "alice", domain.RoleStudent, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, owned.ID)

	viewed, err := svc.GetTicket(ctx, "tech1", domain.RoleTechnician, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, viewed.ID)
}

func TestWeeklyReportBucketsByISOWeek(t *testing.T) {
	svc, tickets, _ := newTestTicketService(&recordingDispatcher{})
	ctx := context.Background()

	// three tickets in ISO week 2026-W02, two in 2026-W04, none between
	weekTwo := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	weekFour := time.Date(2026, 1, 19, 10, 0, 0, 0, time.UTC)
	for i, createdAt := range []time.Time{
		weekTwo, weekTwo.Add(24 * time.Hour), weekTwo.Add(5 * 24 * time.Hour),
		weekFour, weekFour.Add(3 * 24 * time.Hour),
	} {
		err := tickets.Create(ctx, &domain.Ticket{
			OwnerUsername: "alice",
			Title:         "t",
			Category:      "c",
			Description:   "d",
			ContactEmail:  "a@campus.example",
			Status:        domain.TicketStatusOpen,
			CreatedAt:     createdAt,
		})
		require.NoError(t, err, i)
	}

	report, err := svc.WeeklyReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, WeekBucket{Week: "2026-W02", Count: 3}, report[0])
	assert.Equal(t, WeekBucket{Week: "2026-W04", Count: 2}, report[1])
}

func TestWeeklyReportEmpty(t *testing.T) {
	svc, _, _ := newTestTicketService(&recordingDispatcher{})

	report, err := svc.WeeklyReport(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestBodyPreviewTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdefghij"
	}
	preview := bodyPreview(long, 120)
	assert.Len(t, preview, 120)
	assert.Equal(t, "...", preview[117:])

	assert.Equal(t, "short", bodyPreview("  short  ", 120))
}
