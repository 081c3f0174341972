package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/cache"
	"github.com/lexpage/landing-service/internal/content"
	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/repository"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// ContentCache is the read-through cache in front of public reads.
type ContentCache interface {
	Get(ctx context.Context, siteID string) (*domain.SiteContentDocument, error)
	Set(ctx context.Context, doc *domain.SiteContentDocument) error
	Invalidate(ctx context.Context, siteID string) error
}

// ContentService serves and replaces site content documents.
type ContentService struct {
	store  repository.SiteContentRepository
	cache  ContentCache
	schema *content.Schema
	logger *zap.Logger
}

// ContentDependencies bundles collaborators for the content service.
type ContentDependencies struct {
	Store  repository.SiteContentRepository
	Cache  ContentCache
	Schema *content.Schema
	Logger *zap.Logger
}

// NewContentService constructs the service. Cache may be nil.
func NewContentService(deps ContentDependencies) *ContentService {
	schema := deps.Schema
	if schema == nil {
		schema = content.NewSchema()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{store: deps.Store, cache: deps.Cache, schema: schema, logger: logger}
}

// GetPublic returns the stored document for anonymous readers.
func (s *ContentService) GetPublic(ctx context.Context, siteID string) (*domain.SiteContentDocument, error) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return nil, apperrors.NewNotFound("content", nil)
	}

	if s.cache != nil {
		doc, err := s.cache.Get(ctx, siteID)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("content cache read failed", zap.String("site_id", siteID), zap.Error(err))
		}
	}

	doc, err := s.find(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, doc); err != nil {
			s.logger.Warn("content cache write failed", zap.String("site_id", siteID), zap.Error(err))
		}
	}
	return doc, nil
}

// GetAdmin returns the document for an authenticated admin of siteID.
func (s *ContentService) GetAdmin(ctx context.Context, principal *domain.Principal, siteID string) (*domain.SiteContentDocument, error) {
	if err := authorizeSite(principal, siteID); err != nil {
		return nil, err
	}
	return s.find(ctx, siteID)
}

// PutAdmin validates raw as a full document for siteID and replaces whatever is
// stored. Concurrent writers race; the last one wins.
func (s *ContentService) PutAdmin(ctx context.Context, principal *domain.Principal, siteID string, raw []byte) (*domain.SiteContentDocument, error) {
	if err := authorizeSite(principal, siteID); err != nil {
		return nil, err
	}

	doc, err := s.schema.Parse(siteID, raw)
	if err != nil {
		return nil, validationFailed("content validation failed", err)
	}

	stored, err := s.store.Upsert(ctx, doc)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.refresh(ctx, stored)
	s.logger.Info("site content replaced",
		zap.String("site_id", siteID),
		zap.String("user_id", principal.ID),
		zap.Int64("version", stored.Version))
	return stored, nil
}

// CreateInitial stores a first document and refuses to overwrite an existing site.
func (s *ContentService) CreateInitial(ctx context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error) {
	content.Normalize(&doc)
	if err := s.schema.Validate(&doc); err != nil {
		return nil, validationFailed("content validation failed", err)
	}
	stored, err := s.store.Create(ctx, doc)
	if err != nil {
		return nil, storeError("content", err)
	}
	s.invalidate(ctx, doc.SiteID)
	return stored, nil
}

// Exists reports whether siteID already has a document.
func (s *ContentService) Exists(ctx context.Context, siteID string) (bool, error) {
	_, err := s.store.FindBySiteID(ctx, siteID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, apperrors.NewInternalError(err)
	}
}

func (s *ContentService) find(ctx context.Context, siteID string) (*domain.SiteContentDocument, error) {
	doc, err := s.store.FindBySiteID(ctx, siteID)
	if err != nil {
		return nil, storeError("content", err)
	}
	return doc, nil
}

// refresh writes a freshly stored document through to the public cache. The
// cache keeps the highest version, so public reads racing this write cannot
// leave the previous document behind. When the write fails the entry is dropped.
func (s *ContentService) refresh(ctx context.Context, doc *domain.SiteContentDocument) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, doc); err != nil {
		s.logger.Warn("content cache refresh failed", zap.String("site_id", doc.SiteID), zap.Error(err))
		s.invalidate(ctx, doc.SiteID)
	}
}

func (s *ContentService) invalidate(ctx context.Context, siteID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, siteID); err != nil {
		s.logger.Warn("content cache invalidation failed", zap.String("site_id", siteID), zap.Error(err))
	}
}

func authorizeSite(principal *domain.Principal, siteID string) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !principal.CanAdminister(siteID) {
		return apperrors.NewForbidden("not allowed to manage this site")
	}
	return nil
}
