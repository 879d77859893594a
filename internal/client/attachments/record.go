package attachments

// Record origins. Upload records own a staged copy in the managed directory
// that the archive sweep removes after sync; download records own the only
// local copy of the bytes and are never swept.
const (
	OriginUpload   = "upload"
	OriginDownload = "download"
)

// Parent identifies the business record an attachment belongs to.
type Parent struct {
	Kind string // asset, gateway or point
	ID   string
}

// Record is one attachment tracked through upload or download. Records are
// never deleted; ARCHIVED is the terminal state.
type Record struct {
	ID        string
	Filename  string
	LocalPath string
	Size      int64
	MediaType string
	State     State
	Origin    string
	Parent    Parent
	SiteID    string
	RemoteKey string
	CreatedAt int64 // epoch milliseconds
	UpdatedAt int64 // epoch milliseconds
	LastError string
}

// EnqueueRequest describes one locally captured file to stage for upload.
type EnqueueRequest struct {
	SourcePath string
	MediaType  string
	Parent     Parent
	SiteID     string
}
