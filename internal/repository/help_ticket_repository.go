package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexpage/landing-service/internal/domain"
)

// HelpTicketRepository persists contact tickets from the help widget.
type HelpTicketRepository interface {
	Create(ctx context.Context, ticket *domain.HelpTicket) error
}

type helpTicketRepository struct {
	pool *pgxpool.Pool
}

// NewHelpTicketRepository returns a Postgres-backed implementation.
func NewHelpTicketRepository(pool *pgxpool.Pool) HelpTicketRepository {
	return &helpTicketRepository{pool: pool}
}

func (r *helpTicketRepository) Create(ctx context.Context, ticket *domain.HelpTicket) error {
	const query = `
        INSERT INTO help_tickets (name, email, message, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	if ticket.Status == "" {
		ticket.Status = domain.HelpTicketOpen
	}
	return mapPgError(r.pool.QueryRow(ctx, query,
		ticket.Name,
		ticket.Email,
		ticket.Message,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt))
}
