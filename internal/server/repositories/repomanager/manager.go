package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fieldkeeper/internal/dbx"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/repositories/collections"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/repositories/photos"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Photos(db dbx.DBTX) photos.Repository
	Collections(db dbx.DBTX) collections.Repository
}
