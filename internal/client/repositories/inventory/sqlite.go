package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kaman1990/field-service-sub001/internal/client/models"
	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) UpsertArea(ctx context.Context, a *models.Area) error {
	query := `INSERT INTO areas (id, name, version, deleted)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				version = excluded.version,
				deleted = excluded.deleted
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.Version, a.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert area: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertStatus(ctx context.Context, s *models.Status) error {
	query := `INSERT INTO statuses (id, name, version, deleted)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				version = excluded.version,
				deleted = excluded.deleted
	`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Version, s.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert status: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertAsset(ctx context.Context, a *models.Asset) error {
	query := `INSERT INTO assets (id, area_id, status_id, name, serial, version, deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET area_id = excluded.area_id,
				status_id = excluded.status_id,
				name = excluded.name,
				serial = excluded.serial,
				version = excluded.version,
				deleted = excluded.deleted
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.AreaID, a.StatusID, a.Name, a.Serial, a.Version, a.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert asset: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertGateway(ctx context.Context, g *models.Gateway) error {
	query := `INSERT INTO gateways (id, area_id, name, serial, version, deleted)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET area_id = excluded.area_id,
				name = excluded.name,
				serial = excluded.serial,
				version = excluded.version,
				deleted = excluded.deleted
	`
	_, err := r.db.ExecContext(ctx, query, g.ID, g.AreaID, g.Name, g.Serial, g.Version, g.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert gateway: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertPoint(ctx context.Context, p *models.Point) error {
	query := `INSERT INTO points (id, asset_id, gateway_id, name, unit, version, deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET asset_id = excluded.asset_id,
				gateway_id = excluded.gateway_id,
				name = excluded.name,
				unit = excluded.unit,
				version = excluded.version,
				deleted = excluded.deleted
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.AssetID, p.GatewayID, p.Name, p.Unit, p.Version, p.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	query := `SELECT id, name, version FROM areas WHERE deleted=0 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select areas: %w", err)
	}
	defer rows.Close()

	var result []models.Area
	for rows.Next() {
		var item models.Area
		if err := rows.Scan(&item.ID, &item.Name, &item.Version); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListStatuses(ctx context.Context) ([]models.Status, error) {
	query := `SELECT id, name, version FROM statuses WHERE deleted=0 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select statuses: %w", err)
	}
	defer rows.Close()

	var result []models.Status
	for rows.Next() {
		var item models.Status
		if err := rows.Scan(&item.ID, &item.Name, &item.Version); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAssets returns non-deleted assets matching the filter, ordered by name.
func (r *SQLiteRepository) ListAssets(ctx context.Context, f AssetFilter) ([]models.Asset, error) {
	query := `SELECT id, area_id, status_id, name, serial, version FROM assets WHERE deleted=0`
	args := []any{}

	if f.AreaID != "" {
		query += ` AND area_id=?`
		args = append(args, f.AreaID)
	}
	if f.StatusID != "" {
		query += ` AND status_id=?`
		args = append(args, f.StatusID)
	}
	if f.Text != "" {
		query += ` AND (name LIKE ? OR serial LIKE ?)`
		pattern := "%" + f.Text + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select assets: %w", err)
	}
	defer rows.Close()

	var result []models.Asset
	for rows.Next() {
		var item models.Asset
		if err := rows.Scan(&item.ID, &item.AreaID, &item.StatusID, &item.Name, &item.Serial, &item.Version); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListGateways(ctx context.Context, areaID string) ([]models.Gateway, error) {
	query := `SELECT id, area_id, name, serial, version FROM gateways WHERE deleted=0`
	args := []any{}
	if areaID != "" {
		query += ` AND area_id=?`
		args = append(args, areaID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select gateways: %w", err)
	}
	defer rows.Close()

	var result []models.Gateway
	for rows.Next() {
		var item models.Gateway
		if err := rows.Scan(&item.ID, &item.AreaID, &item.Name, &item.Serial, &item.Version); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListPoints(ctx context.Context, assetID string) ([]models.Point, error) {
	query := `SELECT id, asset_id, gateway_id, name, unit, version FROM points WHERE deleted=0`
	args := []any{}
	if assetID != "" {
		query += ` AND asset_id=?`
		args = append(args, assetID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select points: %w", err)
	}
	defer rows.Close()

	var result []models.Point
	for rows.Next() {
		var item models.Point
		if err := rows.Scan(&item.ID, &item.AssetID, &item.GatewayID, &item.Name, &item.Unit, &item.Version); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	query := `SELECT id, area_id, status_id, name, serial, version FROM assets WHERE deleted=0 AND id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	a := &models.Asset{}
	err := row.Scan(&a.ID, &a.AreaID, &a.StatusID, &a.Name, &a.Serial, &a.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetGateway(ctx context.Context, id string) (*models.Gateway, error) {
	query := `SELECT id, area_id, name, serial, version FROM gateways WHERE deleted=0 AND id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	g := &models.Gateway{}
	err := row.Scan(&g.ID, &g.AreaID, &g.Name, &g.Serial, &g.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetPoint(ctx context.Context, id string) (*models.Point, error) {
	query := `SELECT id, asset_id, gateway_id, name, unit, version FROM points WHERE deleted=0 AND id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	p := &models.Point{}
	err := row.Scan(&p.ID, &p.AssetID, &p.GatewayID, &p.Name, &p.Unit, &p.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}
	return p, nil
}
