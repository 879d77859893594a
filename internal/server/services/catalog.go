package services

import (
	"context"
	"database/sql"

	"github.com/kaman1990/field-service-sub001/internal/server/models"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/repomanager"
)

// CatalogSnapshot carries every row changed after a pull cursor plus the new
// cursor value. Version is the highest version among the returned rows, or
// the requested cursor when nothing changed, so clients can store it blindly.
type CatalogSnapshot struct {
	Areas    []*models.Area
	Statuses []*models.Status
	Assets   []*models.Asset
	Gateways []*models.Gateway
	Points   []*models.Point
	Images   []*models.Image
	Version  int64
}

// CatalogService serves incremental master-data pulls to field clients.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCatalogService constructs a CatalogService over the given repositories.
func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// Pull returns all catalog and image rows with version > since, tombstones
// included.
func (s *CatalogService) Pull(ctx context.Context, since int64) (*CatalogSnapshot, error) {
	repo := s.repomanager.Catalog(s.db)
	imageRepo := s.repomanager.Images(s.db)

	snap := &CatalogSnapshot{Version: since}
	bump := func(v int64) {
		if v > snap.Version {
			snap.Version = v
		}
	}

	var err error

	if snap.Areas, err = repo.SelectUpdatedAreas(ctx, since); err != nil {
		return nil, err
	}
	for _, r := range snap.Areas {
		bump(r.Version)
	}

	if snap.Statuses, err = repo.SelectUpdatedStatuses(ctx, since); err != nil {
		return nil, err
	}
	for _, r := range snap.Statuses {
		bump(r.Version)
	}

	if snap.Assets, err = repo.SelectUpdatedAssets(ctx, since); err != nil {
		return nil, err
	}
	for _, r := range snap.Assets {
		bump(r.Version)
	}

	if snap.Gateways, err = repo.SelectUpdatedGateways(ctx, since); err != nil {
		return nil, err
	}
	for _, r := range snap.Gateways {
		bump(r.Version)
	}

	if snap.Points, err = repo.SelectUpdatedPoints(ctx, since); err != nil {
		return nil, err
	}
	for _, r := range snap.Points {
		bump(r.Version)
	}

	if snap.Images, err = imageRepo.SelectUpdated(ctx, since); err != nil {
		return nil, err
	}
	for _, r := range snap.Images {
		bump(r.Version)
	}

	return snap, nil
}
