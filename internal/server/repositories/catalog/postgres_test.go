package catalog

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestSelectUpdatedAreas(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*version,\s*deleted\s+FROM\s+areas\s+WHERE\s+version\s*>\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "name", "version", "deleted"}).
		AddRow("ar1", "North hall", int64(5), false).
		AddRow("ar2", "Old depot", int64(7), true)
	mock.ExpectQuery(q).WithArgs(int64(4)).WillReturnRows(rows)

	got, err := repo.SelectUpdatedAreas(context.Background(), 4)
	if err != nil {
		t.Fatalf("SelectUpdatedAreas error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].ID != "ar1" || got[0].Name != "North hall" || got[0].Version != 5 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if !got[1].Deleted {
		t.Fatalf("tombstone must survive the read: %+v", got[1])
	}
}

func TestSelectUpdatedAreas_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*version,\s*deleted\s+FROM\s+areas\b`

	mock.ExpectQuery(q).WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "version", "deleted"}))

	got, err := repo.SelectUpdatedAreas(context.Background(), 100)
	if err != nil {
		t.Fatalf("SelectUpdatedAreas error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want no rows, got %d", len(got))
	}
}

func TestSelectUpdatedAreas_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*version,\s*deleted\s+FROM\s+areas\b`

	mock.ExpectQuery(q).WithArgs(int64(0)).WillReturnError(errors.New("db down"))

	_, err := repo.SelectUpdatedAreas(context.Background(), 0)
	if err == nil || !regexp.MustCompile(`failed to select areas: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSelectUpdatedStatuses(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*version,\s*deleted\s+FROM\s+statuses\b`

	rows := sqlmock.NewRows([]string{"id", "name", "version", "deleted"}).
		AddRow("st1", "In service", int64(3), false)
	mock.ExpectQuery(q).WithArgs(int64(0)).WillReturnRows(rows)

	got, err := repo.SelectUpdatedStatuses(context.Background(), 0)
	if err != nil {
		t.Fatalf("SelectUpdatedStatuses error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "In service" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestSelectUpdatedAssets(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*area_id,\s*status_id,\s*name,\s*serial,\s*version,\s*deleted\s+FROM\s+assets\b`

	rows := sqlmock.NewRows([]string{"id", "area_id", "status_id", "name", "serial", "version", "deleted"}).
		AddRow("a1", "ar1", "st1", "Main pump", "SN-100", int64(9), false)
	mock.ExpectQuery(q).WithArgs(int64(8)).WillReturnRows(rows)

	got, err := repo.SelectUpdatedAssets(context.Background(), 8)
	if err != nil {
		t.Fatalf("SelectUpdatedAssets error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 row, got %d", len(got))
	}
	a := got[0]
	if a.ID != "a1" || a.AreaID != "ar1" || a.StatusID != "st1" || a.Serial != "SN-100" || a.Version != 9 {
		t.Fatalf("unexpected row: %+v", a)
	}
}

func TestSelectUpdatedGateways(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*area_id,\s*name,\s*serial,\s*version,\s*deleted\s+FROM\s+gateways\b`

	rows := sqlmock.NewRows([]string{"id", "area_id", "name", "serial", "version", "deleted"}).
		AddRow("g1", "ar1", "Gateway north", "GW-7", int64(2), false)
	mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.SelectUpdatedGateways(context.Background(), 1)
	if err != nil {
		t.Fatalf("SelectUpdatedGateways error: %v", err)
	}
	if len(got) != 1 || got[0].Serial != "GW-7" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestSelectUpdatedPoints(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*asset_id,\s*gateway_id,\s*name,\s*unit,\s*version,\s*deleted\s+FROM\s+points\b`

	rows := sqlmock.NewRows([]string{"id", "asset_id", "gateway_id", "name", "unit", "version", "deleted"}).
		AddRow("p1", "a1", "g1", "Bearing temp", "C", int64(6), false).
		AddRow("p2", "a1", "", "Vibration", "mm/s", int64(7), false)
	mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnRows(rows)

	got, err := repo.SelectUpdatedPoints(context.Background(), 5)
	if err != nil {
		t.Fatalf("SelectUpdatedPoints error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].GatewayID != "g1" || got[1].GatewayID != "" {
		t.Fatalf("unexpected gateway ids: %+v %+v", got[0], got[1])
	}
}

func TestNextVersion(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+nextval\('catalog_version_seq'\)\s*$`

	rows := sqlmock.NewRows([]string{"nextval"}).AddRow(int64(101))
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.NextVersion(context.Background())
	if err != nil {
		t.Fatalf("NextVersion error: %v", err)
	}
	if got != 101 {
		t.Fatalf("unexpected version: %d", got)
	}
}

func TestNextVersion_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+nextval\('catalog_version_seq'\)\s*$`

	mock.ExpectQuery(q).WillReturnError(errors.New("db down"))

	_, err := repo.NextVersion(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSelectUpdatedPoints_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*asset_id,\s*gateway_id,\s*name,\s*unit,\s*version,\s*deleted\s+FROM\s+points\b`

	rows := sqlmock.NewRows([]string{"id", "asset_id", "gateway_id", "name", "unit", "version", "deleted"}).
		AddRow("p1", "a1", "g1", "Bearing temp", "C", int64(6), false).
		RowError(0, errors.New("broken row"))
	mock.ExpectQuery(q).WithArgs(int64(0)).WillReturnRows(rows)

	_, err := repo.SelectUpdatedPoints(context.Background(), 0)
	if err == nil {
		t.Fatalf("expected row iteration error, got nil")
	}
}
