// internal/membership/implementation.go
package membership

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// service implements the Service interface with an in-memory registry.
type service struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]*Member
	byEmail     map[string]uuid.UUID
	credentials map[uuid.UUID]credential
	rateLimiter *rate.Limiter
}

// NewService creates a new membership service instance. limiter guards
// registration and authentication; nil disables limiting.
func NewService(limiter *rate.Limiter) Service {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &service{
		byID:        make(map[uuid.UUID]*Member),
		byEmail:     make(map[string]uuid.UUID),
		credentials: make(map[uuid.UUID]credential),
		rateLimiter: limiter,
	}
}

// RegisterMember creates a new member with a salted password hash.
func (s *service) RegisterMember(ctx context.Context, email, name, password string) (*Member, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	member := &Member{
		ID:       uuid.New(),
		Email:    email,
		Name:     name,
		Status:   "active",
		JoinedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}
	s.byID[member.ID] = member
	s.byEmail[email] = member.ID
	s.credentials[member.ID] = credential{passwordHash: passwordHash, salt: salt}

	out := *member
	return &out, nil
}

// Authenticate verifies a member's credentials and returns the member
// if successful.
func (s *service) Authenticate(ctx context.Context, email, password string) (*Member, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	id, ok := s.byEmail[email]
	var member Member
	var cred credential
	if ok {
		member = *s.byID[id]
		cred = s.credentials[id]
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}

	verified, err := verifyPassword(password, cred.salt, cred.passwordHash)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrInvalidCredentials
	}

	return &member, nil
}

// GetMember retrieves a member by their ID.
func (s *service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.byID[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	out := *member
	return &out, nil
}
