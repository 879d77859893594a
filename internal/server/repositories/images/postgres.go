package images

import (
	"context"
	"fmt"

	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
	"github.com/kaman1990/field-service-sub001/internal/server/models"
)

// PostgresRepository implements image storage over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrUpdate upserts an image by id. Re-registration of an existing row
// refreshes its metadata and version; a tombstoned row is left untouched and
// ErrVersionConflict is returned so a lagging client cannot resurrect it.
// created_at keeps its first-write value on update.
func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (id, parent_kind, parent_id, site_id, filename, media_type, size, remote_key, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			parent_kind = EXCLUDED.parent_kind,
			parent_id = EXCLUDED.parent_id,
			site_id = EXCLUDED.site_id,
			filename = EXCLUDED.filename,
			media_type = EXCLUDED.media_type,
			size = EXCLUDED.size,
			remote_key = EXCLUDED.remote_key,
			version = EXCLUDED.version
			WHERE images.deleted = FALSE;
	`
	res, err := r.db.ExecContext(ctx, query,
		image.ID, image.ParentKind, image.ParentID, image.SiteID,
		image.Filename, image.MediaType, image.Size, image.RemoteKey,
		image.Version, image.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrVersionConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// SelectUpdated returns all images with version > minVersion.
func (r *PostgresRepository) SelectUpdated(ctx context.Context, minVersion int64) ([]*models.Image, error) {
	query := `SELECT id, parent_kind, parent_id, site_id, filename, media_type, size, remote_key, version, created_at, deleted FROM images
		WHERE version > $1
	`
	rows, err := r.db.QueryContext(ctx, query, minVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	var result []*models.Image
	for rows.Next() {
		var item models.Image
		if err := rows.Scan(
			&item.ID, &item.ParentKind, &item.ParentID, &item.SiteID,
			&item.Filename, &item.MediaType, &item.Size, &item.RemoteKey,
			&item.Version, &item.CreatedAt, &item.Deleted,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
