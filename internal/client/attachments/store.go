package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
)

const recordColumns = `id, filename, local_path, size, media_type, state, origin, parent_kind, parent_id, site_id, remote_key, created_at, updated_at, last_error`

// Store persists attachment records over a DBTX. All writes go through the
// Queue and its worker; readers get snapshots via List.
type Store struct {
	db dbx.DBTX
}

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func (s *Store) Insert(ctx context.Context, rec *Record) error {
	query := `INSERT INTO attachments (` + recordColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Filename, rec.LocalPath, rec.Size, rec.MediaType, int(rec.State), rec.Origin,
		rec.Parent.Kind, rec.Parent.ID, rec.SiteID, rec.RemoteKey, rec.CreatedAt, rec.UpdatedAt, rec.LastError)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var state int
	err := sc.Scan(&rec.ID, &rec.Filename, &rec.LocalPath, &rec.Size, &rec.MediaType, &state, &rec.Origin,
		&rec.Parent.Kind, &rec.Parent.ID, &rec.SiteID, &rec.RemoteKey, &rec.CreatedAt, &rec.UpdatedAt, &rec.LastError)
	rec.State = State(state)
	return rec, err
}

func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM attachments WHERE id=?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &rec, nil
}

// List returns every record, oldest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.listWhere(ctx, ``)
}

// ListInStates returns records in any of the given states, oldest first.
func (s *Store) ListInStates(ctx context.Context, states ...State) ([]Record, error) {
	if len(states) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(states)), ",")
	args := make([]any, len(states))
	for i, st := range states {
		args[i] = int(st)
	}
	return s.listWhere(ctx, `WHERE state IN (`+placeholders+`)`, args...)
}

func (s *Store) listWhere(ctx context.Context, where string, args ...any) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM attachments ` + where + ` ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetState moves a record to st, stamping updated_at and clearing any
// previous failure. It expects exactly one row affected.
func (s *Store) SetState(ctx context.Context, id string, st State) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET state=?, last_error='', updated_at=? WHERE id=?`,
		int(st), nowMillis(), id)
	if err != nil {
		return fmt.Errorf("failed to update attachment state: %w", err)
	}
	return affectedOne(res)
}

// SetRemoteKeyAndState records the storage key assigned by the presigner and
// advances the state in one statement.
func (s *Store) SetRemoteKeyAndState(ctx context.Context, id, remoteKey string, st State) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET remote_key=?, state=?, last_error='', updated_at=? WHERE id=?`,
		remoteKey, int(st), nowMillis(), id)
	if err != nil {
		return fmt.Errorf("failed to update attachment key/state: %w", err)
	}
	return affectedOne(res)
}

// SetLastError records a step failure without touching the state.
func (s *Store) SetLastError(ctx context.Context, id, msg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET last_error=?, updated_at=? WHERE id=?`,
		msg, nowMillis(), id)
	if err != nil {
		return fmt.Errorf("failed to record attachment error: %w", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
