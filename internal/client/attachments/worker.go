package attachments

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/kaman1990/field-service-sub001/internal/api"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/images"
	"github.com/kaman1990/field-service-sub001/internal/client/store"
	"github.com/kaman1990/field-service-sub001/internal/filex"
	"github.com/kaman1990/field-service-sub001/internal/netx"
)

const (
	uploadRetryBase  = 500 * time.Millisecond
	uploadMaxRetries = 3
)

// RunWorker drives queued records until ctx is cancelled. It wakes on the
// poll ticker and on Nudge; every state transition happens on this single
// goroutine.
func (q *Queue) RunWorker(ctx context.Context) {
	ticker := time.NewTicker(q.cfg.PollInterval)
	defer ticker.Stop()

	for {
		q.processPass(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-q.nudge:
		}
	}
}

func (q *Queue) processPass(ctx context.Context) {
	recs, err := q.records.ListInStates(ctx, StateQueuedUpload, StateQueuedSync, StateQueuedDownload)
	if err != nil {
		q.log.Error(ctx, "attachment pass: list failed", "error", err)
		return
	}

	for _, rec := range recs {
		if ctx.Err() != nil {
			return
		}
		rec := rec

		var stepErr error
		switch rec.State {
		case StateQueuedUpload:
			stepErr = q.processUpload(ctx, &rec)
		case StateQueuedSync:
			stepErr = q.processSync(ctx, &rec)
		case StateQueuedDownload:
			stepErr = q.processDownload(ctx, &rec)
		}
		if stepErr == nil {
			continue
		}

		if err := q.records.SetLastError(ctx, rec.ID, stepErr.Error()); err != nil {
			q.log.Error(ctx, "attachment pass: recording error failed", "id", rec.ID, "error", err)
		}
		if netx.IsConnectivityError(stepErr) {
			// Offline or flaky link. The record stays queued; the rest of the
			// pass would fail the same way, so wait for the next tick or an
			// online transition.
			q.log.Warn(ctx, "attachment transfer postponed", "id", rec.ID, "state", rec.State.String(), "error", stepErr)
			break
		}
		q.log.Error(ctx, "attachment step failed", "id", rec.ID, "state", rec.State.String(), "error", stepErr)
	}

	q.archivePass(ctx)
}

func (q *Queue) processUpload(ctx context.Context, rec *Record) error {
	key, url, err := q.remote.PresignPut(ctx, rec.Filename, rec.MediaType)
	if err != nil {
		return fmt.Errorf("presign put: %w", err)
	}

	b := retry.WithMaxRetries(uploadMaxRetries, retry.NewFibonacci(uploadRetryBase))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := netx.UploadFileToPresignedURL(ctx, url, rec.LocalPath, rec.MediaType); err != nil {
			if netx.IsConnectivityError(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", rec.Filename, err)
	}

	if err := q.records.SetRemoteKeyAndState(ctx, rec.ID, key, StateQueuedSync); err != nil {
		return err
	}
	rec.RemoteKey = key
	rec.State = StateQueuedSync
	q.notifier.Notify(store.TableAttachments)

	// Register in the same pass; no reason to sit in QUEUED_SYNC for a tick.
	return q.processSync(ctx, rec)
}

func (q *Queue) processSync(ctx context.Context, rec *Record) error {
	req := api.RegisterImageRequest{
		ID:         rec.ID,
		ParentKind: rec.Parent.Kind,
		ParentID:   rec.Parent.ID,
		SiteID:     rec.SiteID,
		Filename:   rec.Filename,
		MediaType:  rec.MediaType,
		Size:       rec.Size,
		RemoteKey:  rec.RemoteKey,
		CreatedAt:  rec.CreatedAt,
	}
	if err := q.remote.RegisterImage(ctx, req); err != nil {
		return fmt.Errorf("register image: %w", err)
	}

	if err := images.NewSQLiteRepository(q.db).MarkSynced(ctx, rec.ID, rec.RemoteKey); err != nil {
		return err
	}
	if err := q.records.SetState(ctx, rec.ID, StateSynced); err != nil {
		return err
	}
	rec.State = StateSynced
	q.notifier.Notify(store.TableAttachments)
	q.notifier.Notify(store.TableImages)
	return nil
}

func (q *Queue) processDownload(ctx context.Context, rec *Record) error {
	url, err := q.remote.PresignGet(ctx, rec.RemoteKey)
	if err != nil {
		return fmt.Errorf("presign get: %w", err)
	}
	if err := netx.DownloadFromPresignedURL(ctx, url, rec.LocalPath); err != nil {
		return fmt.Errorf("download %s: %w", rec.Filename, err)
	}
	if err := q.records.SetState(ctx, rec.ID, StateSynced); err != nil {
		return err
	}
	q.notifier.Notify(store.TableAttachments)
	return nil
}

// archivePass retires synced upload records: the staged copy is removed and
// the record flips to ARCHIVED. The record itself is kept; download records
// keep their bytes and stay SYNCED.
func (q *Queue) archivePass(ctx context.Context) {
	recs, err := q.records.ListInStates(ctx, StateSynced)
	if err != nil {
		q.log.Error(ctx, "archive pass: list failed", "error", err)
		return
	}

	cutoff := time.Now().Add(-q.cfg.ArchiveAfter).UnixMilli()
	archived := 0
	for _, rec := range recs {
		if rec.Origin != OriginUpload || rec.UpdatedAt > cutoff {
			continue
		}
		if err := filex.RemoveIfExists(rec.LocalPath); err != nil {
			q.log.Error(ctx, "archive pass: removing staged copy failed", "id", rec.ID, "error", err)
			continue
		}
		if err := q.records.SetState(ctx, rec.ID, StateArchived); err != nil {
			q.log.Error(ctx, "archive pass: state update failed", "id", rec.ID, "error", err)
			continue
		}
		archived++
	}
	if archived > 0 {
		q.log.Info(ctx, "attachments archived", "count", archived)
		q.notifier.Notify(store.TableAttachments)
	}
}
