// Package images persists the relational image rows: one per photo, linked
// to a parent entity. The bytes travel through the attachment queue; these
// rows are what screens list and what sync reconciles with the server.
package images

import (
	"context"

	"github.com/kaman1990/field-service-sub001/internal/client/models"
)

type Repository interface {
	CreateOrUpdate(ctx context.Context, img *models.Image) error
	GetByID(ctx context.Context, id string) (*models.Image, error)
	ListByParent(ctx context.Context, parentKind, parentID string) ([]models.Image, error)
	MarkSynced(ctx context.Context, id, remoteKey string) error

	// ListWithoutAttachment returns image rows that have no matching
	// attachment record, i.e. photos known from the server but never staged
	// locally. Sync uses it to enqueue downloads.
	ListWithoutAttachment(ctx context.Context) ([]models.Image, error)
}
