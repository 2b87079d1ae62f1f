package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// Repository is the credential store: it owns the users relation and is
// the only component that ever sees password hashes.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, username string) (time.Time, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	GetProfile(ctx context.Context, username string) (*models.User, error)
}
