// Package services contains server-side business logic. This file
// implements UserService: registration, password verification, login
// with session-token issuance, and profile reads.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides credential and profile operations:
//   - Register: hash the password and create the user
//   - Authenticate: verify a username/password pair
//   - Login: authenticate, stamp last_login_at, mint a token
//   - List / GetProfile: public profile reads
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

// Register creates a new user. The raw password is bcrypt-hashed before
// it reaches the repository and is never stored or logged. An empty
// required field yields ErrorInvalidInput; a username collision
// surfaces as ErrorDuplicate.
func (s *UserService) Register(ctx context.Context, username, password, firstName, lastName, phone string) (*models.User, error) {
	if username == "" || password == "" || firstName == "" || lastName == "" || phone == "" {
		return nil, common.ErrorInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	u.PasswordHash = ""
	return u, nil
}

// Authenticate reports whether the password matches the stored hash.
// A missing account propagates ErrorNotFound; a wrong password is
// (false, nil), never an error, so callers can tell the two cases
// apart at this boundary.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, err
		}
		return false, common.ErrorInternal
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, common.ErrorInternal
	}

	return true, nil
}

// Login verifies credentials, stamps last_login_at, and mints a session
// token. Both a missing account and a wrong password come back as
// ErrorUnauthorized; last_login_at is only touched on success.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.UpdateLastLogin(ctx, username); err != nil {
		return "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// List returns the public summary of every registered user.
func (s *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	repo := s.repomanager.Users(s.db)
	result, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return result, nil
}

// GetProfile returns a full profile (join_at, last_login_at, never the
// hash). ErrorNotFound propagates.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetProfile(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reading profile: %w", err)
	}
	return user, nil
}
