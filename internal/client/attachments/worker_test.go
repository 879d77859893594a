package attachments

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaman1990/field-service-sub001/internal/api"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/images"
)

type fakeRemote struct {
	putKey      string
	putURL      string
	getURL      string
	presignErr  error
	registerErr error
	putCalls    int
	registered  []api.RegisterImageRequest
}

func (f *fakeRemote) PresignPut(_ context.Context, _, _ string) (string, string, error) {
	f.putCalls++
	if f.presignErr != nil {
		return "", "", f.presignErr
	}
	return f.putKey, f.putURL, nil
}

func (f *fakeRemote) PresignGet(_ context.Context, _ string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return f.getURL, nil
}

func (f *fakeRemote) RegisterImage(_ context.Context, req api.RegisterImageRequest) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, req)
	return nil
}

func TestWorker_UploadChain(t *testing.T) {
	db := setupQueueDB(t)
	ctx := context.Background()

	var uploaded []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		uploaded = body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	remote := &fakeRemote{putKey: "users/2025/8/25/k1", putURL: srv.URL}
	q, _ := newTestQueue(t, db, remote, Config{ArchiveAfter: time.Hour})

	src := writeSourceFile(t, "pump.jpg", "jpeg bytes")
	rec, err := q.Enqueue(ctx, EnqueueRequest{
		SourcePath: src,
		Parent:     Parent{Kind: "asset", ID: "a1"},
		SiteID:     "s1",
	})
	require.NoError(t, err)

	q.processPass(ctx)

	// one pass takes the record all the way to SYNCED
	got, err := q.records.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSynced, got.State)
	assert.Equal(t, "users/2025/8/25/k1", got.RemoteKey)
	assert.Empty(t, got.LastError)

	assert.Equal(t, "jpeg bytes", string(uploaded))

	require.Len(t, remote.registered, 1)
	reg := remote.registered[0]
	assert.Equal(t, rec.ID, reg.ID)
	assert.Equal(t, "asset", reg.ParentKind)
	assert.Equal(t, "a1", reg.ParentID)
	assert.Equal(t, "pump.jpg", reg.Filename)
	assert.Equal(t, "users/2025/8/25/k1", reg.RemoteKey)

	img, err := images.NewSQLiteRepository(db).GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, img.Synced)
	assert.Equal(t, "users/2025/8/25/k1", img.RemoteKey)

	// fresh SYNCED record survives the archive pass
	_, err = os.Stat(got.LocalPath)
	require.NoError(t, err)
}

func TestWorker_ConnectivityError_StopsPass(t *testing.T) {
	db := setupQueueDB(t)
	ctx := context.Background()

	remote := &fakeRemote{presignErr: errors.New("dial tcp: connection refused")}
	q, _ := newTestQueue(t, db, remote, Config{ArchiveAfter: time.Hour})

	first, err := q.Enqueue(ctx, EnqueueRequest{
		SourcePath: writeSourceFile(t, "a.jpg", "a"),
		Parent:     Parent{Kind: "asset", ID: "a1"},
	})
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, EnqueueRequest{
		SourcePath: writeSourceFile(t, "b.jpg", "b"),
		Parent:     Parent{Kind: "asset", ID: "a1"},
	})
	require.NoError(t, err)

	q.processPass(ctx)

	// only the first record was attempted; both stay queued
	assert.Equal(t, 1, remote.putCalls)

	got, err := q.records.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StateQueuedUpload, got.State)
	assert.Contains(t, got.LastError, "connection refused")

	got, err = q.records.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, StateQueuedUpload, got.State)
	assert.Empty(t, got.LastError)
}

func TestWorker_RegisterFailure_KeepsQueuedSync(t *testing.T) {
	db := setupQueueDB(t)
	ctx := context.Background()

	remote := &fakeRemote{registerErr: errors.New("duplicate image id")}
	q, _ := newTestQueue(t, db, remote, Config{ArchiveAfter: time.Hour})

	rec := sampleRecord("r1", StateQueuedSync)
	rec.RemoteKey = "users/2025/8/25/k1"
	require.NoError(t, q.records.Insert(ctx, rec))

	q.processPass(ctx)

	got, err := q.records.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, StateQueuedSync, got.State, "registration failure must not lose the uploaded key")
	assert.Equal(t, "users/2025/8/25/k1", got.RemoteKey)
	assert.Contains(t, got.LastError, "register image")
	assert.Contains(t, got.LastError, "duplicate image id")

	// next pass with a healthy server finishes the job
	remote.registerErr = nil
	seedImageRow(t, db, "r1")

	q.processPass(ctx)

	got, err = q.records.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, StateSynced, got.State)
	assert.Empty(t, got.LastError)
	require.Len(t, remote.registered, 1)
}

func TestWorker_Download(t *testing.T) {
	db := setupQueueDB(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("remote bytes"))
	}))
	defer srv.Close()

	remote := &fakeRemote{getURL: srv.URL}
	q, _ := newTestQueue(t, db, remote, Config{ArchiveAfter: time.Millisecond})

	rec := sampleRecord("d1", StateQueuedDownload)
	rec.Origin = OriginDownload
	rec.RemoteKey = "users/2025/8/25/d1"
	rec.LocalPath = q.cfg.DataDir + "/d1.jpg"
	rec.UpdatedAt = 1000 // well past any archive cutoff
	require.NoError(t, q.records.Insert(ctx, rec))

	q.processPass(ctx)

	got, err := q.records.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, StateSynced, got.State)

	body, err := os.ReadFile(rec.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "remote bytes", string(body))

	// downloads are never archived, even long past the cutoff
	_, err = db.Exec(`UPDATE attachments SET updated_at = 1000 WHERE id = 'd1'`)
	require.NoError(t, err)
	q.archivePass(ctx)
	got, err = q.records.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, StateSynced, got.State)
	_, err = os.Stat(rec.LocalPath)
	require.NoError(t, err)
}

func TestWorker_ArchivePass(t *testing.T) {
	db := setupQueueDB(t)
	ctx := context.Background()

	q, _ := newTestQueue(t, db, &fakeRemote{}, Config{ArchiveAfter: time.Hour})

	staged := writeSourceFile(t, "old.jpg", "old bytes")
	old := sampleRecord("old", StateSynced)
	old.LocalPath = staged
	old.UpdatedAt = 1000
	require.NoError(t, q.records.Insert(ctx, old))

	fresh := sampleRecord("fresh", StateSynced)
	fresh.UpdatedAt = time.Now().UnixMilli()
	require.NoError(t, q.records.Insert(ctx, fresh))

	q.archivePass(ctx)

	got, err := q.records.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, StateArchived, got.State, "the record outlives its staged copy")
	_, err = os.Stat(staged)
	require.True(t, os.IsNotExist(err), "staged copy should be gone")

	got, err = q.records.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, StateSynced, got.State)
}

func TestWorker_RunWorker_StopsOnCancel(t *testing.T) {
	db := setupQueueDB(t)
	q, _ := newTestQueue(t, db, &fakeRemote{}, Config{PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.RunWorker(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

// seedImageRow inserts a bare images row so MarkSynced has something to hit.
func seedImageRow(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO images (id, parent_kind, parent_id, filename, created_at)
		VALUES (?, 'asset', 'a1', ?, 0)`, id, id+".jpg")
	require.NoError(t, err)
}
