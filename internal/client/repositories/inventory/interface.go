// Package inventory persists the master-data catalog pulled from the server:
// areas, statuses, assets, gateways and measurement points. All rows are
// server-owned; the client only upserts what the pull sync delivers.
package inventory

import (
	"context"

	"github.com/kaman1990/field-service-sub001/internal/client/models"
)

// AssetFilter narrows ListAssets. Zero-value fields are ignored; Text
// matches name or serial as a substring.
type AssetFilter struct {
	AreaID   string
	StatusID string
	Text     string
}

type Repository interface {
	UpsertArea(ctx context.Context, a *models.Area) error
	UpsertStatus(ctx context.Context, s *models.Status) error
	UpsertAsset(ctx context.Context, a *models.Asset) error
	UpsertGateway(ctx context.Context, g *models.Gateway) error
	UpsertPoint(ctx context.Context, p *models.Point) error

	ListAreas(ctx context.Context) ([]models.Area, error)
	ListStatuses(ctx context.Context) ([]models.Status, error)
	ListAssets(ctx context.Context, f AssetFilter) ([]models.Asset, error)
	ListGateways(ctx context.Context, areaID string) ([]models.Gateway, error)
	ListPoints(ctx context.Context, assetID string) ([]models.Point, error)

	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	GetGateway(ctx context.Context, id string) (*models.Gateway, error)
	GetPoint(ctx context.Context, id string) (*models.Point, error)
}
