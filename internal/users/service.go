package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askloop/askloop-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrValidation is returned when required registration fields are missing.
	ErrValidation = errors.New("name, email and password are required")
	// ErrInvalidCredentials is returned for unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service encapsulates user-related business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Register creates a new member account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleMember,
	}
	return s.repo.Create(ctx, u)
}

// Authenticate verifies the credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns the user or (nil, nil) when absent.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// PublicProfiles resolves the given user ids to their public projections.
// Unknown ids are silently absent from the result map; response enrichment
// tolerates deleted authors.
func (s *Service) PublicProfiles(ctx context.Context, ids []string) (map[string]models.PublicProfile, error) {
	seen := map[string]bool{}
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return map[string]models.PublicProfile{}, nil
	}
	list, err := s.repo.GetManyByID(ctx, uniq)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.PublicProfile, len(list))
	for _, u := range list {
		out[u.ID.Hex()] = u.Public()
	}
	return out, nil
}
