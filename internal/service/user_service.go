package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username or email already taken")

// UserService handles user auth and profile logic.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Profile returns the user by id.
func (s *UserService) Profile(ctx context.Context, userID int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateProfile updates display name and bio. Nil means keep.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, displayName, bio *string) (dom.User, error) {
	existing, err := s.Profile(ctx, userID)
	if err != nil {
		return dom.User{}, err
	}
	if displayName != nil {
		existing.DisplayName = strings.TrimSpace(*displayName)
	}
	if bio != nil {
		existing.Bio = strings.TrimSpace(*bio)
	}
	u, err := s.repo.UpdateProfile(ctx, userID, existing.DisplayName, existing.Bio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}
