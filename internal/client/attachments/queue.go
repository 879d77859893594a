package attachments

import (
	"context"
	"database/sql"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kaman1990/field-service-sub001/internal/api"
	"github.com/kaman1990/field-service-sub001/internal/client/models"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/images"
	"github.com/kaman1990/field-service-sub001/internal/client/store"
	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
	"github.com/kaman1990/field-service-sub001/internal/filex"
	"github.com/kaman1990/field-service-sub001/internal/logging"
)

// Remote is the slice of the API client the queue worker needs.
type Remote interface {
	PresignPut(ctx context.Context, filename, mediaType string) (key, url string, err error)
	PresignGet(ctx context.Context, remoteKey string) (url string, err error)
	RegisterImage(ctx context.Context, req api.RegisterImageRequest) error
}

// Config tunes the queue. Zero values take the defaults below.
type Config struct {
	DataDir      string        // managed directory holding staged copies
	PollInterval time.Duration // worker tick
	ArchiveAfter time.Duration // SYNCED -> ARCHIVED delay for upload records
}

const (
	defaultPollInterval = 15 * time.Second
	defaultArchiveAfter = 10 * time.Minute
)

// Queue is the durable attachment queue and the sole writer of attachment
// state. Enqueue and EnqueueDownload create records; every transition after
// that is driven by the background worker (worker.go).
type Queue struct {
	db       *sql.DB
	records  *Store
	remote   Remote
	notifier *store.Notifier
	log      logging.Logger
	cfg      Config
	nudge    chan struct{}
}

func NewQueue(db *sql.DB, remote Remote, notifier *store.Notifier, log logging.Logger, cfg Config) *Queue {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ArchiveAfter <= 0 {
		cfg.ArchiveAfter = defaultArchiveAfter
	}
	return &Queue{
		db:       db,
		records:  NewStore(db),
		remote:   remote,
		notifier: notifier,
		log:      log.With("module", "attachments"),
		cfg:      cfg,
		nudge:    make(chan struct{}, 1),
	}
}

// Enqueue stages the source file into the managed directory and records it
// for upload, together with its relational image row, in one transaction.
// Purely local: it succeeds with no connectivity at all.
func (q *Queue) Enqueue(ctx context.Context, req EnqueueRequest) (*Record, error) {
	if !common.ValidParentKind(req.Parent.Kind) {
		return nil, fmt.Errorf("unknown parent kind %q", req.Parent.Kind)
	}

	fi, err := os.Stat(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	id := uuid.NewString()
	filename := filepath.Base(req.SourcePath)
	localPath := filepath.Join(q.cfg.DataDir, id+filepath.Ext(filename))

	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = mime.TypeByExtension(filepath.Ext(filename))
	}

	if err := filex.CopyFile(req.SourcePath, localPath); err != nil {
		return nil, fmt.Errorf("stage file: %w", err)
	}

	now := nowMillis()
	rec := &Record{
		ID:        id,
		Filename:  filename,
		LocalPath: localPath,
		Size:      fi.Size(),
		MediaType: mediaType,
		State:     StateQueuedUpload,
		Origin:    OriginUpload,
		Parent:    req.Parent,
		SiteID:    req.SiteID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	img := &models.Image{
		ID:         id,
		ParentKind: req.Parent.Kind,
		ParentID:   req.Parent.ID,
		SiteID:     req.SiteID,
		Filename:   filename,
		MediaType:  mediaType,
		Size:       fi.Size(),
		CreatedAt:  now,
	}

	err = dbx.WithTx(ctx, q.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := NewStore(tx).Insert(ctx, rec); err != nil {
			return err
		}
		return images.NewSQLiteRepository(tx).CreateOrUpdate(ctx, img)
	})
	if err != nil {
		_ = filex.RemoveIfExists(localPath)
		return nil, err
	}

	q.notifier.Notify(store.TableAttachments)
	q.notifier.Notify(store.TableImages)
	q.Nudge()

	return rec, nil
}

// EnqueueDownload records a download for an image known remotely but missing
// its local bytes. The record id matches the image id, which is how download
// discovery avoids enqueueing twice.
func (q *Queue) EnqueueDownload(ctx context.Context, img models.Image) (*Record, error) {
	if img.RemoteKey == "" {
		return nil, fmt.Errorf("image %s has no remote key", img.ID)
	}

	now := nowMillis()
	rec := &Record{
		ID:        img.ID,
		Filename:  img.Filename,
		LocalPath: filepath.Join(q.cfg.DataDir, img.ID+filepath.Ext(img.Filename)),
		Size:      img.Size,
		MediaType: img.MediaType,
		State:     StateQueuedDownload,
		Origin:    OriginDownload,
		Parent:    Parent{Kind: img.ParentKind, ID: img.ParentID},
		SiteID:    img.SiteID,
		RemoteKey: img.RemoteKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := q.records.Insert(ctx, rec); err != nil {
		return nil, err
	}

	q.notifier.Notify(store.TableAttachments)
	q.Nudge()

	return rec, nil
}

// List returns a snapshot of every attachment record, oldest first.
func (q *Queue) List(ctx context.Context) ([]Record, error) {
	return q.records.List(ctx)
}

// Nudge wakes the worker without waiting for the next tick. Never blocks.
func (q *Queue) Nudge() {
	select {
	case q.nudge <- struct{}{}:
	default:
	}
}
