// Package images declares the repository contract for photo attachment
// metadata registered by field clients.
package images

import (
	"context"

	"github.com/kaman1990/field-service-sub001/internal/server/models"
)

// Repository defines persistence operations for image rows.
type Repository interface {
	// CreateOrUpdate upserts an image by id. The caller stamps the row with
	// a version drawn from the catalog sequence. Upserting a tombstoned
	// image yields common.ErrVersionConflict.
	CreateOrUpdate(ctx context.Context, image *models.Image) error

	// SelectUpdated returns all images with version > minVersion,
	// tombstones included.
	SelectUpdated(ctx context.Context, minVersion int64) ([]*models.Image, error)
}
