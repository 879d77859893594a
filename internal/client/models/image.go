package models

// Image is the relational record for a photo attached to a parent entity.
// The bytes themselves travel through the attachment queue; this row is what
// screens list and what the server registers after a successful upload.
type Image struct {
	ID         string
	ParentKind string
	ParentID   string
	SiteID     string
	Filename   string
	MediaType  string
	Size       int64
	RemoteKey  string
	Synced     bool
	Version    int64
	CreatedAt  int64 // epoch milliseconds
	Deleted    bool
}
