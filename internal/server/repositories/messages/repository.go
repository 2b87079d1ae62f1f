package messages

import (
	"context"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// Repository is the message store. It executes reads and mutations but
// makes no authorization decisions; that is the authz package's job.
type Repository interface {
	Create(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	MarkRead(ctx context.Context, id int64) (*models.Message, error)
	ListFrom(ctx context.Context, username string) ([]*models.Message, error)
	ListTo(ctx context.Context, username string) ([]*models.Message, error)
}
