package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexpage/landing-service/internal/domain"
)

// SiteContentRepository stores one content document per site.
type SiteContentRepository interface {
	// FindBySiteID returns ErrNotFound when the site has no document.
	FindBySiteID(ctx context.Context, siteID string) (*domain.SiteContentDocument, error)
	// Upsert atomically inserts or fully replaces the document keyed by doc.SiteID,
	// stamps the metadata and returns the stored version.
	Upsert(ctx context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error)
	// Create inserts a new document and returns ErrDuplicate when the site exists.
	Create(ctx context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error)
}

type siteContentRepository struct {
	pool *pgxpool.Pool
}

// NewSiteContentRepository returns a Postgres JSONB-backed implementation.
func NewSiteContentRepository(pool *pgxpool.Pool) SiteContentRepository {
	return &siteContentRepository{pool: pool}
}

func (r *siteContentRepository) FindBySiteID(ctx context.Context, siteID string) (*domain.SiteContentDocument, error) {
	const query = `
        SELECT document, created_at, updated_at, version
        FROM site_contents WHERE site_id=$1`
	return scanSiteContent(r.pool.QueryRow(ctx, query, siteID))
}

func (r *siteContentRepository) Upsert(ctx context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error) {
	const query = `
        INSERT INTO site_contents (site_id, document)
        VALUES ($1, $2)
        ON CONFLICT (site_id) DO UPDATE
            SET document=EXCLUDED.document, updated_at=NOW(), version=site_contents.version+1
        RETURNING document, created_at, updated_at, version`

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode site content: %w", err)
	}
	return scanSiteContent(r.pool.QueryRow(ctx, query, doc.SiteID, payload))
}

func (r *siteContentRepository) Create(ctx context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error) {
	const query = `
        INSERT INTO site_contents (site_id, document)
        VALUES ($1, $2)
        RETURNING document, created_at, updated_at, version`

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode site content: %w", err)
	}
	return scanSiteContent(r.pool.QueryRow(ctx, query, doc.SiteID, payload))
}

func scanSiteContent(row pgx.Row) (*domain.SiteContentDocument, error) {
	var (
		raw    []byte
		stored domain.SiteContentDocument
	)
	if err := row.Scan(&raw, &stored.CreatedAt, &stored.UpdatedAt, &stored.Version); err != nil {
		return nil, mapPgError(err)
	}
	if err := json.Unmarshal(raw, &stored.SiteContent); err != nil {
		return nil, fmt.Errorf("decode site content: %w", err)
	}
	return &stored, nil
}
