package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexpage/landing-service/internal/domain"
)

// MetricEventRepository stores append-only help-desk usage events.
type MetricEventRepository interface {
	Create(ctx context.Context, event *domain.MetricEvent) error
	Summary(ctx context.Context) (domain.MetricsSummary, error)
}

type metricEventRepository struct {
	pool *pgxpool.Pool
}

// NewMetricEventRepository returns a Postgres-backed implementation.
func NewMetricEventRepository(pool *pgxpool.Pool) MetricEventRepository {
	return &metricEventRepository{pool: pool}
}

func (r *metricEventRepository) Create(ctx context.Context, event *domain.MetricEvent) error {
	const query = `
        INSERT INTO metric_events (type, data)
        VALUES ($1, $2)
        RETURNING id::text, created_at`

	if event.Data == nil {
		event.Data = map[string]any{}
	}
	return mapPgError(r.pool.QueryRow(ctx, query, event.Type, event.Data).Scan(&event.ID, &event.CreatedAt))
}

func (r *metricEventRepository) Summary(ctx context.Context) (domain.MetricsSummary, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE type=$1),
            (SELECT COUNT(*) FROM help_tickets),
            (SELECT COUNT(*) FROM chat_sessions),
            (SELECT COUNT(*) FROM chat_messages)
        FROM metric_events`

	var summary domain.MetricsSummary
	err := r.pool.QueryRow(ctx, query, domain.MetricFaqViewed).Scan(
		&summary.TotalFaqViews,
		&summary.TotalTickets,
		&summary.TotalChats,
		&summary.TotalMessages,
	)
	return summary, err
}
