package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/messages"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// run the same repository code pooled or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
}
