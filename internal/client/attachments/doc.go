// Package attachments implements the durable, offline-first attachment
// queue backing photo capture in the field client.
//
// Locally captured files are staged into a managed directory and tracked as
// records in SQLite. A single background worker moves each record through
// its lifecycle:
//
//	QUEUED_UPLOAD -> QUEUED_SYNC -> SYNCED -> ARCHIVED   (capture path)
//	QUEUED_DOWNLOAD -> SYNCED                            (pull path)
//
// Connectivity failures never fail a record: the worker records the error
// and leaves the state untouched, so a device that stays offline simply
// accumulates QUEUED_* records until a link is available. Records are never
// deleted; ARCHIVED only means the staged upload copy has been removed.
package attachments
