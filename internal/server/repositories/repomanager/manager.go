package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tyrekeeper/internal/dbx"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/repositories/tyres"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tyres(db dbx.DBTX) tyres.Repository
}
