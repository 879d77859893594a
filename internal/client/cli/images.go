package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kaman1990/field-service-sub001/internal/client/attachments"
	"github.com/kaman1990/field-service-sub001/internal/common"
)

// AddImage attaches a batch of local photos to an entity. The files are
// staged into the managed attachment directory and queued for upload; the
// command succeeds with no connectivity at all, the actual transfer happens
// in the background worker.
func (a *App) AddImage(ctx context.Context) error {
	kind, err := getSimpleText(a.reader, "Parent kind (asset, gateway or point)", os.Stdout)
	if err != nil {
		return err
	}
	if !common.ValidParentKind(kind) {
		log.Printf("Unknown parent kind: %s", kind)
		return fmt.Errorf("unknown parent kind: %s", kind)
	}

	id, err := getSimpleText(a.reader, "Parent id", os.Stdout)
	if err != nil {
		return err
	}

	siteID, err := a.resolveSiteID(ctx, kind, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	paths, err := GetPaths(a.reader, "Enter photo paths, one per line", os.Stdout)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		printlnFn("Nothing to queue.")
		return nil
	}

	if err := a.imageService.QueuePhotos(ctx, attachments.Parent{Kind: kind, ID: id}, siteID, paths); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Queued %d photo(s), uploading in background.", len(paths)))
	return nil
}
