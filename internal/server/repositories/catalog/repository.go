// Package catalog declares the repository contract for versioned master
// data: areas, statuses, assets, gateways, and measurement points. Rows are
// maintained by back-office tooling; the server only reads them out for
// client pulls.
package catalog

import (
	"context"

	"github.com/kaman1990/field-service-sub001/internal/server/models"
)

// Repository defines incremental read operations over the catalog tables.
// Each Select method returns rows with version > minVersion, tombstones
// included.
type Repository interface {
	SelectUpdatedAreas(ctx context.Context, minVersion int64) ([]*models.Area, error)
	SelectUpdatedStatuses(ctx context.Context, minVersion int64) ([]*models.Status, error)
	SelectUpdatedAssets(ctx context.Context, minVersion int64) ([]*models.Asset, error)
	SelectUpdatedGateways(ctx context.Context, minVersion int64) ([]*models.Gateway, error)
	SelectUpdatedPoints(ctx context.Context, minVersion int64) ([]*models.Point, error)

	// NextVersion draws the next value from the version sequence shared by
	// every catalog table. Writers stamp new rows with it so client pull
	// cursors stay comparable across tables.
	NextVersion(ctx context.Context) (int64, error)
}
