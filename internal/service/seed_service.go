package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/content"
	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/repository"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// SeedInput selects what the seeder installs.
type SeedInput struct {
	AdminEmail    string
	AdminPassword string
	SiteID        string
}

// SeedReport says what a seed run changed.
type SeedReport struct {
	AdminCreated   bool
	AdminSkipped   bool
	ContentCreated bool
}

// SeedService installs the first admin and the sample site. Every step is a
// no-op when its target already exists.
type SeedService struct {
	users   repository.UserRepository
	content *ContentService
	hasher  *auth.PasswordHasher
	logger  *zap.Logger
}

// NewSeedService constructs the seeder.
func NewSeedService(users repository.UserRepository, contentSvc *ContentService, hasher *auth.PasswordHasher, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{users: users, content: contentSvc, hasher: hasher, logger: logger}
}

// Seed runs both steps.
func (s *SeedService) Seed(ctx context.Context, input SeedInput) (SeedReport, error) {
	var report SeedReport

	created, err := s.seedAdmin(ctx, input.AdminEmail, input.AdminPassword)
	if err != nil {
		return report, err
	}
	report.AdminCreated = created
	report.AdminSkipped = strings.TrimSpace(input.AdminEmail) == "" || input.AdminPassword == ""

	siteID := strings.TrimSpace(input.SiteID)
	if siteID == "" {
		siteID = "bufete-ejemplo"
	}
	report.ContentCreated, err = s.seedContent(ctx, siteID)
	return report, err
}

func (s *SeedService) seedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.logger.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set; skipping admin")
		return false, nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.logger.Info("admin already exists", zap.String("email", email))
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	user := &domain.User{Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("admin created", zap.String("email", email), zap.String("user_id", user.ID))
	return true, nil
}

func (s *SeedService) seedContent(ctx context.Context, siteID string) (bool, error) {
	exists, err := s.content.Exists(ctx, siteID)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Info("content already exists", zap.String("site_id", siteID))
		return false, nil
	}

	if _, err := s.content.CreateInitial(ctx, content.SeedDocument(siteID)); err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) && de.Code == "CONFLICT" {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("base content created", zap.String("site_id", siteID))
	return true, nil
}
