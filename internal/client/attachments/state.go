package attachments

// State is the lifecycle stage of an attachment record.
type State int

const (
	StateQueuedSync State = iota
	StateQueuedUpload
	StateQueuedDownload
	StateSynced
	StateArchived
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case StateQueuedSync:
		return "QUEUED_SYNC"
	case StateQueuedUpload:
		return "QUEUED_UPLOAD"
	case StateQueuedDownload:
		return "QUEUED_DOWNLOAD"
	case StateSynced:
		return "SYNCED"
	case StateArchived:
		return "ARCHIVED"
	default:
		return "UNKNOWN"
	}
}

// AllStates lists the states in a fixed order, for breakdowns that must
// cover every state.
func AllStates() []State {
	return []State{StateQueuedSync, StateQueuedUpload, StateQueuedDownload, StateSynced, StateArchived}
}
