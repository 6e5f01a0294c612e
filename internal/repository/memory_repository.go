package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/secure-gateway/internal/domain"
)

// memoryRepository keeps credentials in process memory. Used when no
// Postgres DSN is configured, and by tests.
type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Credential
	byEmail map[string]*domain.Credential
}

// NewMemoryRepository returns an in-memory implementation.
func NewMemoryRepository() CredentialRepository {
	return &memoryRepository{
		byID:    make(map[string]*domain.Credential),
		byEmail: make(map[string]*domain.Credential),
	}
}

func (r *memoryRepository) Create(_ context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	now := time.Now()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	stored := *cred
	r.byID[cred.ID] = &stored
	r.byEmail[cred.Email] = &stored
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *cred
	return &copied, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *cred
	return &copied, nil
}
