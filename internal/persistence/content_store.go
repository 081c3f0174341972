package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/config"
	"github.com/lexpage/landing-service/internal/repository"
)

// OpenContentStore returns the configured site content store. The Mongo handle
// is nil unless CONTENT_STORE=mongo; callers own closing it.
func OpenContentStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (repository.SiteContentRepository, *Mongo, error) {
	if cfg.Content.Store != config.ContentStoreMongo {
		return repository.NewSiteContentRepository(pool), nil, nil
	}

	mongo, err := NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		return nil, nil, err
	}
	coll := mongo.Database.Collection(cfg.Mongo.Collection)
	if err := repository.EnsureSiteContentIndexes(ctx, coll); err != nil {
		mongo.Close(context.Background())
		return nil, nil, err
	}
	return repository.NewMongoSiteContentRepository(coll), mongo, nil
}
