package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexpage/landing-service/internal/domain"
)

// FaqRepository persists help-desk FAQ entries.
type FaqRepository interface {
	Create(ctx context.Context, faq *domain.Faq) error
	// Search matches query case-insensitively against the question text. An empty
	// query lists everything, newest first.
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Faq, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Faq, error)
}

type faqRepository struct {
	pool *pgxpool.Pool
}

// NewFaqRepository returns a Postgres-backed implementation.
func NewFaqRepository(pool *pgxpool.Pool) FaqRepository {
	return &faqRepository{pool: pool}
}

func (r *faqRepository) Create(ctx context.Context, faq *domain.Faq) error {
	const query = `
        INSERT INTO help_faqs (question, answer, tags)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	if faq.Tags == nil {
		faq.Tags = []string{}
	}
	return mapPgError(r.pool.QueryRow(ctx, query, faq.Question, faq.Answer, faq.Tags).Scan(&faq.ID, &faq.CreatedAt))
}

func (r *faqRepository) Search(ctx context.Context, query string, limit, offset int) ([]domain.Faq, error) {
	const sql = `
        SELECT id, question, answer, tags, created_at
        FROM help_faqs
        WHERE $1 = '' OR question ILIKE '%' || $1 || '%' ESCAPE '\'
        ORDER BY created_at DESC, id
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, sql, EscapeLike(strings.TrimSpace(query)), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Faq{}
	for rows.Next() {
		var faq domain.Faq
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.Tags, &faq.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, faq)
	}
	return result, rows.Err()
}

func (r *faqRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Faq, error) {
	const sql = `
        SELECT id, question, answer, tags, created_at
        FROM help_faqs WHERE id::text = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]domain.Faq, len(ids))
	for rows.Next() {
		var faq domain.Faq
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.Tags, &faq.CreatedAt); err != nil {
			return nil, err
		}
		byID[faq.ID] = faq
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// keep the caller's ranking
	result := make([]domain.Faq, 0, len(byID))
	for _, id := range ids {
		if faq, ok := byID[id]; ok {
			result = append(result, faq)
		}
	}
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralizes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
