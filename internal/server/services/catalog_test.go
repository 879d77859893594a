package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kaman1990/field-service-sub001/internal/server/models"
)

type fakeCatalogRepo struct {
	areas    []*models.Area
	statuses []*models.Status
	assets   []*models.Asset
	gateways []*models.Gateway
	points   []*models.Point
	selErr   error

	next      int64
	nextErr   error
	nextCalls int
}

func (f *fakeCatalogRepo) SelectUpdatedAreas(ctx context.Context, minVersion int64) ([]*models.Area, error) {
	if f.selErr != nil {
		return nil, f.selErr
	}
	return f.areas, nil
}

func (f *fakeCatalogRepo) SelectUpdatedStatuses(ctx context.Context, minVersion int64) ([]*models.Status, error) {
	if f.selErr != nil {
		return nil, f.selErr
	}
	return f.statuses, nil
}

func (f *fakeCatalogRepo) SelectUpdatedAssets(ctx context.Context, minVersion int64) ([]*models.Asset, error) {
	if f.selErr != nil {
		return nil, f.selErr
	}
	return f.assets, nil
}

func (f *fakeCatalogRepo) SelectUpdatedGateways(ctx context.Context, minVersion int64) ([]*models.Gateway, error) {
	if f.selErr != nil {
		return nil, f.selErr
	}
	return f.gateways, nil
}

func (f *fakeCatalogRepo) SelectUpdatedPoints(ctx context.Context, minVersion int64) ([]*models.Point, error) {
	if f.selErr != nil {
		return nil, f.selErr
	}
	return f.points, nil
}

func (f *fakeCatalogRepo) NextVersion(ctx context.Context) (int64, error) {
	f.nextCalls++
	if f.nextErr != nil {
		return 0, f.nextErr
	}
	return f.next, nil
}

type fakeImagesRepo struct {
	rows   []*models.Image
	selErr error

	created   *models.Image
	createErr error
}

func (f *fakeImagesRepo) CreateOrUpdate(ctx context.Context, image *models.Image) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = image
	return nil
}

func (f *fakeImagesRepo) SelectUpdated(ctx context.Context, minVersion int64) ([]*models.Image, error) {
	if f.selErr != nil {
		return nil, f.selErr
	}
	return f.rows, nil
}

func TestPull_CollectsAllTablesAndAdvancesCursor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		c: &fakeCatalogRepo{
			areas:    []*models.Area{{ID: "a1", Version: 7}},
			statuses: []*models.Status{{ID: "s1", Version: 3}},
			assets:   []*models.Asset{{ID: "eq1", Version: 12}},
			points:   []*models.Point{{ID: "p1", Version: 5}},
		},
		im: &fakeImagesRepo{rows: []*models.Image{{ID: "img1", Version: 9}}},
	}
	s := NewCatalogService(db, rm)

	snap, err := s.Pull(context.Background(), 4)
	if err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if len(snap.Areas) != 1 || len(snap.Statuses) != 1 || len(snap.Assets) != 1 || len(snap.Points) != 1 || len(snap.Images) != 1 {
		t.Fatalf("unexpected snapshot sizes: %+v", snap)
	}
	if len(snap.Gateways) != 0 {
		t.Fatalf("expected no gateways, got %d", len(snap.Gateways))
	}
	if snap.Version != 12 {
		t.Fatalf("cursor = %d, want 12 (highest returned version)", snap.Version)
	}
}

func TestPull_NoChangesKeepsCursor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{c: &fakeCatalogRepo{}, im: &fakeImagesRepo{}}
	s := NewCatalogService(db, rm)

	snap, err := s.Pull(context.Background(), 33)
	if err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if snap.Version != 33 {
		t.Fatalf("cursor = %d, want 33 unchanged", snap.Version)
	}
}

func TestPull_PropagatesRepositoryErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{c: &fakeCatalogRepo{selErr: errBoom{}}, im: &fakeImagesRepo{}}
	s := NewCatalogService(db, rm)
	if _, err := s.Pull(context.Background(), 0); !errors.Is(err, errBoom{}) {
		t.Fatalf("want catalog error, got %v", err)
	}

	rm2 := &fakeRepoManager{c: &fakeCatalogRepo{}, im: &fakeImagesRepo{selErr: errBoom{}}}
	s2 := NewCatalogService(db, rm2)
	if _, err := s2.Pull(context.Background(), 0); !errors.Is(err, errBoom{}) {
		t.Fatalf("want images error, got %v", err)
	}
}
