package repomanager

import (
	"context"
	"database/sql"

	"github.com/kaman1990/field-service-sub001/internal/dbx"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/catalog"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/images"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/refreshtokens"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// them against the pooled connection or inside a transaction handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Catalog(db dbx.DBTX) catalog.Repository
	Images(db dbx.DBTX) images.Repository
}
