package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campus-it/helpdesk/internal/domain"
	"github.com/campus-it/helpdesk/internal/events"
	"github.com/campus-it/helpdesk/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users []*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == user.ID {
			stored := *user
			stored.UpdatedAt = time.Now()
			r.users[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.match(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	result := make([]domain.User, 0, end-offset)
	for _, u := range matched[offset:end] {
		result = append(result, *u)
	}
	return result, nil
}

func (r *fakeUserRepo) Count(_ context.Context, filter repository.UserFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.match(filter)), nil
}

func (r *fakeUserRepo) match(filter repository.UserFilter) []*domain.User {
	var matched []*domain.User
	for _, u := range r.users {
		if filter.Query != nil && !strings.Contains(u.Username, *filter.Query) {
			continue
		}
		matched = append(matched, u)
	}
	return matched
}

func userFilterForQuery(q string) repository.UserFilter {
	return repository.UserFilter{Query: &q}
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	clock   time.Time
	tickets []*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{clock: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	if ticket.CreatedAt.IsZero() {
		r.clock = r.clock.Add(time.Minute)
		ticket.CreatedAt = r.clock
	}
	stored := *ticket
	r.tickets = append(r.tickets, &stored)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Ticket
	for _, t := range r.tickets {
		if filter.Owner != nil && t.OwnerUsername != *filter.Owner {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > len(matched) {
		limit = len(matched)
	}
	result := make([]domain.Ticket, 0, limit)
	for _, t := range matched[:limit] {
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ID == id {
			t.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTicketRepo) CreationTimes(_ context.Context) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	times := make([]time.Time, 0, len(r.tickets))
	for _, t := range r.tickets {
		times = append(times, t.CreatedAt)
	}
	return times, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	clock    time.Time
	comments []*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{clock: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	r.clock = r.clock.Add(time.Second)
	comment.CreatedAt = r.clock
	stored := *comment
	r.comments = append(r.comments, &stored)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

// failingDispatcher simulates a notification pipeline that always breaks.
type failingDispatcher struct{}

func (failingDispatcher) Publish(context.Context, events.Event) error {
	return errors.New("notification pipeline down")
}

func (failingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
