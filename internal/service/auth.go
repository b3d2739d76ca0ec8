package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Hasher *hash.Hasher
	Tokens *tokens.Service
	Events events.Publisher
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return 0, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	pwHash, err := s.Hasher.HashPassword(password)
	if err != nil {
		if errors.Is(err, hash.ErrPasswordTooLong) {
			return 0, fmt.Errorf("%w: password is too long", ErrValidation)
		}
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return 0, ErrConflict
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return 0, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUser, userKey(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return user.ID, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown username and for a
// wrong password alike.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	// Usernames are stored trimmed.
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Hasher.Burn(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.Hasher.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, claims, err := s.Tokens.IssueToken(user.ID)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUser, userKey(user.ID), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
	}, nil
}

// Logout revokes the token identified by jti until expiresAt.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.Tokens.Revoke(ctx, jti, expiresAt)
}

func userKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
