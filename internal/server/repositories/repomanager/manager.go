package repomanager

import (
	"context"
	"database/sql"

	"github.com/marinesurvey/inspector/internal/dbx"
	"github.com/marinesurvey/inspector/internal/server/repositories/inspections"
	"github.com/marinesurvey/inspector/internal/server/repositories/logins"
	"github.com/marinesurvey/inspector/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Inspections(db dbx.DBTX) inspections.Repository
	Logins(db dbx.DBTX) logins.Repository
}
