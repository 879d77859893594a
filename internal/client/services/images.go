package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/kaman1990/field-service-sub001/internal/client/attachments"
	"github.com/kaman1990/field-service-sub001/internal/client/models"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/images"
	"github.com/kaman1990/field-service-sub001/internal/logging"
	"github.com/kaman1990/field-service-sub001/internal/netx"
)

// defaultEnqueueDelay spaces successive enqueues so bursts of photos do not
// overwhelm the change-notification pipeline behind the local store.
const defaultEnqueueDelay = 500 * time.Millisecond

// Enqueuer is the slice of the attachment queue the orchestrator needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, req attachments.EnqueueRequest) (*attachments.Record, error)
}

// ImageService submits captured photos for upload and lists the photos known
// for an entity.
type ImageService interface {
	QueuePhotos(ctx context.Context, parent attachments.Parent, siteID string, paths []string) error
	ListByParent(ctx context.Context, parentKind, parentID string) ([]models.Image, error)
}

type imageService struct {
	queue        Enqueuer
	imageRepo    images.Repository
	log          logging.Logger
	enqueueDelay time.Duration
}

func NewImageService(queue Enqueuer, imageRepo images.Repository, log logging.Logger, enqueueDelay time.Duration) ImageService {
	if enqueueDelay <= 0 {
		enqueueDelay = defaultEnqueueDelay
	}
	return &imageService{
		queue:        queue,
		imageRepo:    imageRepo,
		log:          log.With("module", "images"),
		enqueueDelay: enqueueDelay,
	}
}

// QueuePhotos enqueues each file in order against the given parent, waiting
// the configured delay between successive enqueues (but not after the last).
//
// A failure classified as a connectivity condition is logged and swallowed:
// the file stays eligible for the queue's own retry once the link returns.
// Any other failure is collected and reported after the whole batch ran; no
// failure aborts the remaining files and nothing already queued is undone.
// An empty batch is a no-op.
func (s *imageService) QueuePhotos(ctx context.Context, parent attachments.Parent, siteID string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	var batchErr *multierror.Error
	for i, path := range paths {
		_, err := s.queue.Enqueue(ctx, attachments.EnqueueRequest{
			SourcePath: path,
			Parent:     parent,
			SiteID:     siteID,
		})
		if err != nil {
			if netx.IsConnectivityError(err) {
				s.log.Warn(ctx, "photo enqueue postponed", "path", path, "error", err)
			} else {
				batchErr = multierror.Append(batchErr, fmt.Errorf("queue %s: %w", filepath.Base(path), err))
			}
		}

		if i == len(paths)-1 {
			break
		}
		select {
		case <-ctx.Done():
			batchErr = multierror.Append(batchErr, ctx.Err())
			return batchErr.ErrorOrNil()
		case <-time.After(s.enqueueDelay):
		}
	}

	return batchErr.ErrorOrNil()
}

func (s *imageService) ListByParent(ctx context.Context, parentKind, parentID string) ([]models.Image, error) {
	return s.imageRepo.ListByParent(ctx, parentKind, parentID)
}
