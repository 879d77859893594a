package catalog

import (
	"context"
	"fmt"

	"github.com/kaman1990/field-service-sub001/internal/dbx"
	"github.com/kaman1990/field-service-sub001/internal/server/models"
)

// PostgresRepository implements catalog reads over a dbx.DBTX (*sql.DB or
// *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectUpdatedAreas returns all areas with version > minVersion.
func (r *PostgresRepository) SelectUpdatedAreas(ctx context.Context, minVersion int64) ([]*models.Area, error) {
	query := `SELECT id, name, version, deleted FROM areas
		WHERE version > $1
	`
	rows, err := r.db.QueryContext(ctx, query, minVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to select areas: %w", err)
	}
	defer rows.Close()

	var result []*models.Area
	for rows.Next() {
		var item models.Area
		if err := rows.Scan(&item.ID, &item.Name, &item.Version, &item.Deleted); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SelectUpdatedStatuses returns all statuses with version > minVersion.
func (r *PostgresRepository) SelectUpdatedStatuses(ctx context.Context, minVersion int64) ([]*models.Status, error) {
	query := `SELECT id, name, version, deleted FROM statuses
		WHERE version > $1
	`
	rows, err := r.db.QueryContext(ctx, query, minVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to select statuses: %w", err)
	}
	defer rows.Close()

	var result []*models.Status
	for rows.Next() {
		var item models.Status
		if err := rows.Scan(&item.ID, &item.Name, &item.Version, &item.Deleted); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SelectUpdatedAssets returns all assets with version > minVersion.
func (r *PostgresRepository) SelectUpdatedAssets(ctx context.Context, minVersion int64) ([]*models.Asset, error) {
	query := `SELECT id, area_id, status_id, name, serial, version, deleted FROM assets
		WHERE version > $1
	`
	rows, err := r.db.QueryContext(ctx, query, minVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to select assets: %w", err)
	}
	defer rows.Close()

	var result []*models.Asset
	for rows.Next() {
		var item models.Asset
		if err := rows.Scan(&item.ID, &item.AreaID, &item.StatusID, &item.Name, &item.Serial, &item.Version, &item.Deleted); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SelectUpdatedGateways returns all gateways with version > minVersion.
func (r *PostgresRepository) SelectUpdatedGateways(ctx context.Context, minVersion int64) ([]*models.Gateway, error) {
	query := `SELECT id, area_id, name, serial, version, deleted FROM gateways
		WHERE version > $1
	`
	rows, err := r.db.QueryContext(ctx, query, minVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to select gateways: %w", err)
	}
	defer rows.Close()

	var result []*models.Gateway
	for rows.Next() {
		var item models.Gateway
		if err := rows.Scan(&item.ID, &item.AreaID, &item.Name, &item.Serial, &item.Version, &item.Deleted); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// NextVersion draws the next value from the shared catalog version sequence.
func (r *PostgresRepository) NextVersion(ctx context.Context) (int64, error) {
	query := `SELECT nextval('catalog_version_seq')`

	var version int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return version, nil
}

// SelectUpdatedPoints returns all points with version > minVersion.
func (r *PostgresRepository) SelectUpdatedPoints(ctx context.Context, minVersion int64) ([]*models.Point, error) {
	query := `SELECT id, asset_id, gateway_id, name, unit, version, deleted FROM points
		WHERE version > $1
	`
	rows, err := r.db.QueryContext(ctx, query, minVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to select points: %w", err)
	}
	defer rows.Close()

	var result []*models.Point
	for rows.Next() {
		var item models.Point
		if err := rows.Scan(&item.ID, &item.AssetID, &item.GatewayID, &item.Name, &item.Unit, &item.Version, &item.Deleted); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
