package services

import (
	"context"
	"sync"
	"time"

	"github.com/kaman1990/field-service-sub001/internal/client/attachments"
	"github.com/kaman1990/field-service-sub001/internal/client/store"
	"github.com/kaman1990/field-service-sub001/internal/logging"
)

const defaultStatusInterval = 2 * time.Second

// Snapshot is one observation of the attachment queue. Pending counts the
// records still waiting on the network (QUEUED_UPLOAD or QUEUED_SYNC);
// ByState always carries an entry for every state, including zeroes.
type Snapshot struct {
	Total       int
	Pending     int
	ByState     map[attachments.State]int
	Records     []attachments.Record
	RefreshedAt time.Time
}

// Lister is the slice of the attachment queue the reporter reads.
type Lister interface {
	List(ctx context.Context) ([]attachments.Record, error)
}

// StatusReporter keeps a periodically refreshed snapshot of queue state.
// It only ever reads; a failed read leaves the previous snapshot in place
// rather than surfacing an error.
type StatusReporter struct {
	queue    Lister
	notifier *store.Notifier
	log      logging.Logger
	interval time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

func NewStatusReporter(queue Lister, notifier *store.Notifier, log logging.Logger, interval time.Duration) *StatusReporter {
	if interval <= 0 {
		interval = defaultStatusInterval
	}
	return &StatusReporter{
		queue:    queue,
		notifier: notifier,
		log:      log.With("module", "status"),
		interval: interval,
		snap:     buildSnapshot(nil, time.Time{}),
	}
}

// Run refreshes on the poll interval and on attachment change notifications
// until ctx is cancelled. Reads are serialized on this goroutine, so ticks
// never overlap.
func (r *StatusReporter) Run(ctx context.Context) {
	changes := r.notifier.Subscribe(store.TableAttachments)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-changes:
		}
		r.Refresh(ctx)
	}
}

// Refresh re-reads queue state once. On read failure the previous snapshot
// stays visible (stale but available).
func (r *StatusReporter) Refresh(ctx context.Context) {
	recs, err := r.queue.List(ctx)
	if err != nil {
		r.log.Warn(ctx, "status refresh failed", "error", err)
		return
	}
	snap := buildSnapshot(recs, time.Now())

	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
}

// Snapshot returns the latest observation.
func (r *StatusReporter) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

func buildSnapshot(recs []attachments.Record, at time.Time) Snapshot {
	byState := make(map[attachments.State]int, len(attachments.AllStates()))
	for _, st := range attachments.AllStates() {
		byState[st] = 0
	}

	pending := 0
	for _, rec := range recs {
		byState[rec.State]++
		if rec.State == attachments.StateQueuedUpload || rec.State == attachments.StateQueuedSync {
			pending++
		}
	}

	return Snapshot{
		Total:       len(recs),
		Pending:     pending,
		ByState:     byState,
		Records:     recs,
		RefreshedAt: at,
	}
}
