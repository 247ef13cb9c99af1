package account

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-tracker/domain/failure"
	"github.com/example/task-tracker/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the bcrypt cost used for stored credentials.
const DefaultBcryptCost = 12

// Service implements user registration and the list rules.
type Service struct {
	repo       *Repository
	bcryptCost int
	now        func() time.Time
}

// NewService creates a new Service. A non-positive bcryptCost selects
// DefaultBcryptCost.
func NewService(repo *Repository, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RegisterUser creates a user together with the default Inbox list.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (*user.User, *user.List, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < user.MinNameLength || n > user.MaxNameLength {
		return nil, nil, failure.Validation("name must be between %d and %d characters", user.MinNameLength, user.MaxNameLength)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, nil, failure.Validation("invalid email format")
	}

	if len(password) < user.MinPasswordLength {
		return nil, nil, failure.Validation("password must be at least %d characters", user.MinPasswordLength)
	}
	if len(password) > user.MaxPasswordLength {
		return nil, nil, failure.Validation("password must be at most %d characters", user.MaxPasswordLength)
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, failure.Conflict("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	u := &user.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inbox := &user.List{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		Name:      user.DefaultListName,
		IsDefault: true,
		SortOrder: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateUserWithInbox(ctx, u, inbox); err != nil {
		return nil, nil, err
	}
	return u, inbox, nil
}

// GetUser returns a user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*user.User, error) {
	if id == "" {
		return nil, failure.NotFound("user")
	}
	return s.repo.FindUserByID(ctx, id)
}

// CreateList creates a regular list. New lists are never default.
func (s *Service) CreateList(ctx context.Context, principal, name string, sortOrder *int) (*user.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, failure.Validation("list name is required")
	}
	if utf8.RuneCountInString(name) > user.MaxListNameLength {
		return nil, failure.Validation("list name must be at most %d characters", user.MaxListNameLength)
	}

	now := s.now()
	l := &user.List{
		ID:        uuid.New().String(),
		UserID:    principal,
		Name:      name,
		IsDefault: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateList(ctx, l, sortOrder); err != nil {
		return nil, err
	}
	return l, nil
}

// ListLists returns the principal's lists.
func (s *Service) ListLists(ctx context.Context, principal string) ([]user.List, error) {
	return s.repo.ListsByUser(ctx, principal)
}

// DeleteList removes a list with its tasks and time entries. The default
// list is protected.
func (s *Service) DeleteList(ctx context.Context, principal, listID string) ([]string, error) {
	return s.repo.DeleteListCascade(ctx, listID, principal)
}
