package models

// Image is a photo attachment registered by a client after uploading the
// bytes to object storage. CreatedAt is Unix milliseconds as reported by the
// capturing device; Version follows the same global sequence as the catalog
// so other devices pick the row up on their next pull.
type Image struct {
	ID         string
	ParentKind string
	ParentID   string
	SiteID     string
	Filename   string
	MediaType  string
	Size       int64
	RemoteKey  string
	Version    int64
	CreatedAt  int64
	Deleted    bool
}
