package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/kaman1990/field-service-sub001/internal/api"
	"github.com/kaman1990/field-service-sub001/internal/client/attachments"
	"github.com/kaman1990/field-service-sub001/internal/client/client"
	"github.com/kaman1990/field-service-sub001/internal/client/models"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/images"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/inventory"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/metadata"
	"github.com/kaman1990/field-service-sub001/internal/client/store"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
	"github.com/kaman1990/field-service-sub001/internal/logging"
)

// metaCatalogVersion stores the incremental pull cursor.
const metaCatalogVersion = "catalog_version"

// Downloader is the slice of the attachment queue the sync service needs to
// fetch photo bytes discovered in the catalog.
type Downloader interface {
	EnqueueDownload(ctx context.Context, img models.Image) (*attachments.Record, error)
}

// SyncService pulls the master-data catalog incrementally and queues
// downloads for photos known remotely but missing locally.
type SyncService interface {
	Sync(ctx context.Context) error
}

type syncService struct {
	client   client.Client
	db       *sql.DB
	queue    Downloader
	notifier *store.Notifier
	log      logging.Logger
}

func NewSyncService(client client.Client, db *sql.DB, queue Downloader, notifier *store.Notifier, log logging.Logger) SyncService {
	return &syncService{
		client:   client,
		db:       db,
		queue:    queue,
		notifier: notifier,
		log:      log.With("module", "sync"),
	}
}

// Sync pulls every row changed since the stored cursor, applies the batch in
// one transaction, advances the cursor and queues downloads for images whose
// bytes were never fetched on this device.
func (s *syncService) Sync(ctx context.Context) error {
	since, err := s.cursor(ctx)
	if err != nil {
		return err
	}

	resp, err := s.client.PullCatalog(ctx, since)
	if err != nil {
		return fmt.Errorf("catalog pull: %w", err)
	}

	if err := s.apply(ctx, resp); err != nil {
		return fmt.Errorf("catalog apply: %w", err)
	}
	s.notifyChanged(resp)

	queued, err := s.queueMissingDownloads(ctx)
	if err != nil {
		return err
	}

	s.log.Info(ctx, "catalog synced",
		"since", since, "version", resp.Version,
		"areas", len(resp.Areas), "statuses", len(resp.Statuses),
		"assets", len(resp.Assets), "gateways", len(resp.Gateways),
		"points", len(resp.Points), "images", len(resp.Images),
		"downloads_queued", queued)
	return nil
}

func (s *syncService) cursor(ctx context.Context) (int64, error) {
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metaCatalogVersion)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid catalog cursor %q: %w", raw, err)
	}
	return v, nil
}

func (s *syncService) apply(ctx context.Context, resp *api.CatalogPullResponse) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		inv := inventory.NewSQLiteRepository(tx)
		for _, a := range resp.Areas {
			if err := inv.UpsertArea(ctx, &models.Area{ID: a.ID, Name: a.Name, Version: a.Version, Deleted: a.Deleted}); err != nil {
				return err
			}
		}
		for _, st := range resp.Statuses {
			if err := inv.UpsertStatus(ctx, &models.Status{ID: st.ID, Name: st.Name, Version: st.Version, Deleted: st.Deleted}); err != nil {
				return err
			}
		}
		for _, a := range resp.Assets {
			if err := inv.UpsertAsset(ctx, &models.Asset{
				ID: a.ID, AreaID: a.AreaID, StatusID: a.StatusID,
				Name: a.Name, Serial: a.Serial, Version: a.Version, Deleted: a.Deleted,
			}); err != nil {
				return err
			}
		}
		for _, g := range resp.Gateways {
			if err := inv.UpsertGateway(ctx, &models.Gateway{
				ID: g.ID, AreaID: g.AreaID, Name: g.Name,
				Serial: g.Serial, Version: g.Version, Deleted: g.Deleted,
			}); err != nil {
				return err
			}
		}
		for _, p := range resp.Points {
			if err := inv.UpsertPoint(ctx, &models.Point{
				ID: p.ID, AssetID: p.AssetID, GatewayID: p.GatewayID,
				Name: p.Name, Unit: p.Unit, Version: p.Version, Deleted: p.Deleted,
			}); err != nil {
				return err
			}
		}

		imgRepo := images.NewSQLiteRepository(tx)
		for _, im := range resp.Images {
			img := &models.Image{
				ID: im.ID, ParentKind: im.ParentKind, ParentID: im.ParentID,
				SiteID: im.SiteID, Filename: im.Filename, MediaType: im.MediaType,
				Size: im.Size, RemoteKey: im.RemoteKey, Synced: true,
				Version: im.Version, CreatedAt: im.CreatedAt, Deleted: im.Deleted,
			}
			if err := imgRepo.CreateOrUpdate(ctx, img); err != nil {
				return err
			}
		}

		cursor := []byte(strconv.FormatInt(resp.Version, 10))
		return metadata.NewSQLiteRepository(tx).Set(ctx, metaCatalogVersion, cursor)
	})
}

func (s *syncService) notifyChanged(resp *api.CatalogPullResponse) {
	for table, n := range map[string]int{
		store.TableAreas:    len(resp.Areas),
		store.TableStatuses: len(resp.Statuses),
		store.TableAssets:   len(resp.Assets),
		store.TableGateways: len(resp.Gateways),
		store.TablePoints:   len(resp.Points),
		store.TableImages:   len(resp.Images),
	} {
		if n > 0 {
			s.notifier.Notify(table)
		}
	}
}

// queueMissingDownloads finds catalog images with no attachment record on
// this device and queues their bytes for download. Images never uploaded
// anywhere (no remote key) are skipped.
func (s *syncService) queueMissingDownloads(ctx context.Context) (int, error) {
	missing, err := images.NewSQLiteRepository(s.db).ListWithoutAttachment(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, img := range missing {
		if img.RemoteKey == "" {
			continue
		}
		if _, err := s.queue.EnqueueDownload(ctx, img); err != nil {
			return queued, err
		}
		queued++
	}
	return queued, nil
}
