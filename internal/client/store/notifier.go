// Package store provides change notification for the local database, keyed
// by table name. Writers call Notify after committing; readers subscribe to
// invalidate cached views or wake background workers.
package store

import "sync"

// Table names used as notification keys.
const (
	TableAreas       = "areas"
	TableStatuses    = "statuses"
	TableAssets      = "assets"
	TableGateways    = "gateways"
	TablePoints      = "points"
	TableImages      = "images"
	TableAttachments = "attachments"
)

// Notifier fans out per-table change signals. Subscription channels have
// capacity one and notifications coalesce: a subscriber that has not yet
// consumed a pending signal will not queue another.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string][]chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string][]chan struct{})}
}

// Subscribe returns a channel that receives a signal whenever table changes.
// The channel is never closed.
func (n *Notifier) Subscribe(table string) <-chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[table] = append(n.subs[table], ch)
	n.mu.Unlock()
	return ch
}

// Notify signals all subscribers of table. Never blocks.
func (n *Notifier) Notify(table string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, ch := range n.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
