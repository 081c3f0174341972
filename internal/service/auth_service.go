package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/config"
	"github.com/lexpage/landing-service/internal/content"
	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/repository"
	"github.com/lexpage/landing-service/internal/validation"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// SignupInput is the self-service registration payload.
type SignupInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	SiteID     string `json:"siteId" validate:"required,max=64,slug"`
	FullName   string `json:"fullName" validate:"required,max=200"`
	Phone      string `json:"phone" validate:"max=40"`
	Whatsapp   string `json:"whatsapp" validate:"max=200"`
	MainArea   string `json:"mainArea" validate:"max=100"`
	TargetCity string `json:"targetCity" validate:"max=100"`
}

// AuthService coordinates login, signup and token verification.
type AuthService struct {
	users    repository.UserRepository
	content  *ContentService
	tokenMgr *auth.TokenManager
	hasher   *auth.PasswordHasher
	validate *validator.Validate
	logger   *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	ContentService *ContentService
	Logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		content:  deps.ContentService,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		hasher:   auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		validate: validation.New(),
		logger:   logger,
	}
}

// Login authenticates an admin. Unknown emails and wrong passwords are
// indistinguishable to the caller, including in how long they take.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Principal, domain.Token, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.hasher.CompareDummy(password)
		return nil, domain.Token{}, apperrors.NewInvalidCredentials()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.CompareDummy(password)
			return nil, domain.Token{}, apperrors.NewInvalidCredentials()
		}
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, domain.Token{}, apperrors.NewInvalidCredentials()
	}

	token, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return domain.PrincipalFromUser(user), token, nil
}

// Verify checks the token and reloads its user so deleted accounts lose access.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid or expired token")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return domain.PrincipalFromUser(user), nil
}

// Signup registers an admin bound to a new site and installs starter content.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.Principal, domain.Token, error) {
	input.Email = normalizeEmail(input.Email)
	input.SiteID = strings.TrimSpace(input.SiteID)
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, domain.Token{}, validationFailed("invalid signup", err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.Token{}, emailTaken()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}

	exists, err := s.content.Exists(ctx, input.SiteID)
	if err != nil {
		return nil, domain.Token{}, err
	}
	if exists {
		return nil, domain.Token{}, siteTaken()
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		SiteID:       input.SiteID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Token{}, s.duplicateSignup(ctx, input.Email)
		}
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}

	starter := content.Starter{
		SiteID:     input.SiteID,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Whatsapp:   input.Whatsapp,
		MainArea:   input.MainArea,
		TargetCity: input.TargetCity,
	}.Build()
	if _, err := s.content.CreateInitial(ctx, starter); err != nil {
		s.removeUser(ctx, user)
		var de *apperrors.DomainError
		if errors.As(err, &de) && de.Code == "CONFLICT" {
			return nil, domain.Token{}, siteTaken()
		}
		s.logger.Error("starter content not created", zap.String("site_id", input.SiteID), zap.Error(err))
		return nil, domain.Token{}, err
	}

	token, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin signed up", zap.String("user_id", user.ID), zap.String("site_id", user.SiteID))
	return domain.PrincipalFromUser(user), token, nil
}

// Logout is a no-op: tokens are stateless and expire on their own.
func (s *AuthService) Logout(_ context.Context, _ *domain.Principal) error {
	return nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Hasher exposes the password hasher configured for this service.
func (s *AuthService) Hasher() *auth.PasswordHasher {
	return s.hasher
}

// removeUser undoes the account created by a signup whose site could not be
// installed, so it never holds rights over a site someone else owns.
func (s *AuthService) removeUser(ctx context.Context, user *domain.User) {
	if err := s.users.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
		s.logger.Error("orphaned signup user not removed",
			zap.String("user_id", user.ID),
			zap.String("site_id", user.SiteID),
			zap.Error(err))
	}
}

// duplicateSignup reports which unique key a failed user insert collided with.
func (s *AuthService) duplicateSignup(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return emailTaken()
	}
	return siteTaken()
}

func emailTaken() error {
	return apperrors.NewValidationError("email already registered", map[string]any{
		"fields": []validation.FieldError{{Field: "email", Message: "is already registered"}},
	})
}

func siteTaken() error {
	return apperrors.NewValidationError("site already exists", map[string]any{
		"fields": []validation.FieldError{{Field: "siteId", Message: "is already taken"}},
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
