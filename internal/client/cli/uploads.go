package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kaman1990/field-service-sub001/internal/client/attachments"
	"github.com/kaman1990/field-service-sub001/internal/client/client"
)

// Uploads prints the current attachment queue: totals, a per-state breakdown
// and one line per record. The view comes from the status reporter's latest
// snapshot, so it never blocks on the database.
func (a *App) Uploads(ctx context.Context) error {
	snap := a.status.Snapshot()

	printlnFn(fmt.Sprintf("Attachments: %d total, %d pending", snap.Total, snap.Pending))
	for _, st := range attachments.AllStates() {
		if n := snap.ByState[st]; n > 0 {
			printlnFn(fmt.Sprintf("  %s: %d", st, n))
		}
	}

	now := time.Now()
	for _, rec := range snap.Records {
		line := fmt.Sprintf("  %-15s %s  %s  %s", rec.State, rec.Filename, formatBytes(rec.Size), formatAge(now, rec.UpdatedAt))
		if rec.LastError != "" {
			line += "  last error: " + rec.LastError
		}
		printlnFn(line)
	}
	return nil
}

// Sync pulls catalog changes from the server and queues downloads for any
// photos known remotely but missing locally.
func (a *App) Sync(ctx context.Context) error {
	if err := a.syncService.Sync(ctx); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			log.Printf("Server unavailable, sync postponed")
		} else {
			log.Printf("Sync failed: %v", err)
		}
		return err
	}
	printlnFn("Catalog is up to date.")
	return nil
}
