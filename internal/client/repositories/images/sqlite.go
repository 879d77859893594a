package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kaman1990/field-service-sub001/internal/client/models"
	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, img *models.Image) error {
	query := `INSERT INTO images (id, parent_kind, parent_id, site_id, filename, media_type, size, remote_key, synced, version, created_at, deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET parent_kind = excluded.parent_kind,
				parent_id = excluded.parent_id,
				site_id = excluded.site_id,
				filename = excluded.filename,
				media_type = excluded.media_type,
				size = excluded.size,
				remote_key = excluded.remote_key,
				synced = excluded.synced,
				version = excluded.version,
				created_at = excluded.created_at,
				deleted = excluded.deleted
	`
	_, err := r.db.ExecContext(ctx, query,
		img.ID, img.ParentKind, img.ParentID, img.SiteID, img.Filename, img.MediaType,
		img.Size, img.RemoteKey, img.Synced, img.Version, img.CreatedAt, img.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert image: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	query := `SELECT id, parent_kind, parent_id, site_id, filename, media_type, size, remote_key, synced, version, created_at
			FROM images WHERE deleted=0 AND id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	img := &models.Image{}
	err := row.Scan(&img.ID, &img.ParentKind, &img.ParentID, &img.SiteID, &img.Filename,
		&img.MediaType, &img.Size, &img.RemoteKey, &img.Synced, &img.Version, &img.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return img, nil
}

func (r *SQLiteRepository) ListByParent(ctx context.Context, parentKind, parentID string) ([]models.Image, error) {
	query := `SELECT id, parent_kind, parent_id, site_id, filename, media_type, size, remote_key, synced, version, created_at
			FROM images WHERE deleted=0 AND parent_kind=? AND parent_id=? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, parentKind, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	var result []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.ParentKind, &img.ParentID, &img.SiteID, &img.Filename,
			&img.MediaType, &img.Size, &img.RemoteKey, &img.Synced, &img.Version, &img.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkSynced flags an image as registered with the server and records the
// storage key its bytes live under. It expects exactly one row affected.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id, remoteKey string) error {
	query := `UPDATE images SET synced=1, remote_key=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, query, remoteKey, id)
	if err != nil {
		return fmt.Errorf("failed to mark image synced: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *SQLiteRepository) ListWithoutAttachment(ctx context.Context) ([]models.Image, error) {
	query := `SELECT i.id, i.parent_kind, i.parent_id, i.site_id, i.filename, i.media_type, i.size, i.remote_key, i.synced, i.version, i.created_at
			FROM images i
			LEFT JOIN attachments a ON a.id = i.id
			WHERE i.deleted=0 AND a.id IS NULL`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select images without attachment: %w", err)
	}
	defer rows.Close()

	var result []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.ParentKind, &img.ParentID, &img.SiteID, &img.Filename,
			&img.MediaType, &img.Size, &img.RemoteKey, &img.Synced, &img.Version, &img.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
