package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/secure-gateway/internal/auth"
	"github.com/spec-kit/secure-gateway/internal/config"
	"github.com/spec-kit/secure-gateway/internal/csrf"
	"github.com/spec-kit/secure-gateway/internal/domain"
	"github.com/spec-kit/secure-gateway/internal/events"
	"github.com/spec-kit/secure-gateway/internal/repository"
	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

// Session bundles everything a successful login or registration hands to the
// client: the signed bearer token and a fresh CSRF pair.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Csrf      csrf.Pair
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	credentials repository.CredentialRepository
	tokenMgr    *auth.TokenManager
	csrfStore   *csrf.Store
	dispatcher  events.Dispatcher
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	Credentials repository.CredentialRepository
	CsrfStore   *csrf.Store
	Dispatcher  events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		credentials: deps.Credentials,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		csrfStore:   deps.CsrfStore,
		dispatcher:  deps.Dispatcher,
	}
}

// TokenManager exposes the signer for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new credential and opens a session for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Credential, *Session, error) {
	if _, err := s.credentials.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, nil, apperrors.NewValidationError("password must not be empty", nil)
		}
		return nil, nil, err
	}

	cred := &domain.Credential{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, nil, err
	}

	session, err := s.openSession(ctx, cred)
	if err != nil {
		return nil, nil, err
	}
	return cred, session, nil
}

// CreateAccount creates a credential without opening a session. Used by the
// authenticated account-management endpoint.
func (s *AuthService) CreateAccount(ctx context.Context, name, email, password string) (*domain.Credential, error) {
	if _, err := s.credentials.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, apperrors.NewValidationError("password must not be empty", nil)
		}
		return nil, err
	}

	cred := &domain.Credential{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// GetAccount looks up a credential by id.
func (s *AuthService) GetAccount(ctx context.Context, id string) (*domain.Credential, error) {
	return s.credentials.GetByID(ctx, id)
}

// Login authenticates a credential and opens a session for it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Credential, *Session, error) {
	cred, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.publish(ctx, events.EventLoginFailed, "", map[string]any{"email": email})
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}

	if !auth.VerifyPassword(password, cred.PasswordHash) {
		s.publish(ctx, events.EventLoginFailed, cred.ID, nil)
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	session, err := s.openSession(ctx, cred)
	if err != nil {
		return nil, nil, err
	}
	return cred, session, nil
}

// Logout drops the CSRF entry bound to the presented cookie key. Bearer
// tokens are discarded client-side; the server keeps no token state.
func (s *AuthService) Logout(_ context.Context, cookieKey string) {
	if cookieKey != "" {
		s.csrfStore.Invalidate(cookieKey)
	}
}

func (s *AuthService) openSession(ctx context.Context, cred *domain.Credential) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(cred.ID, cred.Email)
	if err != nil {
		return nil, err
	}

	pair, err := s.csrfStore.Generate()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventLoginSucceeded, cred.ID, nil)
	return &Session{Token: token, ExpiresAt: exp, Csrf: pair}, nil
}

func (s *AuthService) publish(ctx context.Context, t events.EventType, subjectID string, details map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       t,
		SubjectID:  subjectID,
		OccurredAt: time.Now(),
		Details:    details,
	})
}
