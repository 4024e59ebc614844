package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-it/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters. Owner restricts results to one
// student's tickets; technicians list without it.
type TicketFilter struct {
	Owner  *string
	Status *domain.TicketStatus
	Limit  int
	Offset int
}

// TicketRepository encapsulates ticket persistence. Tickets are never
// deleted; closed is a workflow state, not a storage one.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	CreationTimes(ctx context.Context) ([]time.Time, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (username, title, category, description, contact_email, contact_phone, attachment_ref, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OwnerUsername,
		ticket.Title,
		ticket.Category,
		ticket.Description,
		ticket.ContactEmail,
		ticket.ContactPhone,
		ticket.AttachmentRef,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, username, title, category, description, contact_email, contact_phone, attachment_ref, status, created_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.OwnerUsername,
		&ticket.Title,
		&ticket.Category,
		&ticket.Description,
		&ticket.ContactEmail,
		&ticket.ContactPhone,
		&ticket.AttachmentRef,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `
        SELECT id, username, title, category, description, contact_email, contact_phone, attachment_ref, status, created_at
        FROM tickets`
	clauses := []string{}
	args := []any{}

	if filter.Owner != nil {
		args = append(args, *filter.Owner)
		clauses = append(clauses, fmt.Sprintf("username=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerUsername,
			&ticket.Title,
			&ticket.Category,
			&ticket.Description,
			&ticket.ContactEmail,
			&ticket.ContactPhone,
			&ticket.AttachmentRef,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

// UpdateStatus overwrites the status field unconditionally; concurrent
// writers race with last-write-wins semantics.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreationTimes returns every ticket creation timestamp, feeding the weekly
// report aggregation.
func (r *ticketRepository) CreationTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `SELECT created_at FROM tickets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
