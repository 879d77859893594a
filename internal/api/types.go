// Package api defines the JSON types exchanged between the field client and
// the sync server. Both sides import this package so the wire format cannot
// drift.
package api

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PingResponse reports server health.
type PingResponse struct {
	Status string `json:"status"`
}

// CatalogPullRequest asks for all master-data rows changed after Since.
type CatalogPullRequest struct {
	Since int64 `json:"since"`
}

// CatalogArea mirrors models.Area on the wire.
type CatalogArea struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version int64  `json:"version"`
	Deleted bool   `json:"deleted"`
}

// CatalogStatus mirrors models.Status on the wire.
type CatalogStatus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version int64  `json:"version"`
	Deleted bool   `json:"deleted"`
}

// CatalogAsset mirrors models.Asset on the wire.
type CatalogAsset struct {
	ID       string `json:"id"`
	AreaID   string `json:"area_id"`
	StatusID string `json:"status_id"`
	Name     string `json:"name"`
	Serial   string `json:"serial"`
	Version  int64  `json:"version"`
	Deleted  bool   `json:"deleted"`
}

// CatalogGateway mirrors models.Gateway on the wire.
type CatalogGateway struct {
	ID      string `json:"id"`
	AreaID  string `json:"area_id"`
	Name    string `json:"name"`
	Serial  string `json:"serial"`
	Version int64  `json:"version"`
	Deleted bool   `json:"deleted"`
}

// CatalogPoint mirrors models.Point on the wire.
type CatalogPoint struct {
	ID        string `json:"id"`
	AssetID   string `json:"asset_id"`
	GatewayID string `json:"gateway_id"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Version   int64  `json:"version"`
	Deleted   bool   `json:"deleted"`
}

// CatalogImage mirrors the server-known image rows on the wire.
type CatalogImage struct {
	ID         string `json:"id"`
	ParentKind string `json:"parent_kind"`
	ParentID   string `json:"parent_id"`
	SiteID     string `json:"site_id"`
	Filename   string `json:"filename"`
	MediaType  string `json:"media_type"`
	Size       int64  `json:"size"`
	RemoteKey  string `json:"remote_key"`
	Version    int64  `json:"version"`
	CreatedAt  int64  `json:"created_at"`
	Deleted    bool   `json:"deleted"`
}

// CatalogPullResponse carries every row changed after the requested cursor
// plus the new cursor value to store.
type CatalogPullResponse struct {
	Areas    []CatalogArea    `json:"areas"`
	Statuses []CatalogStatus  `json:"statuses"`
	Assets   []CatalogAsset   `json:"assets"`
	Gateways []CatalogGateway `json:"gateways"`
	Points   []CatalogPoint   `json:"points"`
	Images   []CatalogImage   `json:"images"`
	Version  int64            `json:"version"`
}

// RegisterImageRequest records an uploaded photo against its parent entity.
type RegisterImageRequest struct {
	ID         string `json:"id"`
	ParentKind string `json:"parent_kind"`
	ParentID   string `json:"parent_id"`
	SiteID     string `json:"site_id"`
	Filename   string `json:"filename"`
	MediaType  string `json:"media_type"`
	Size       int64  `json:"size"`
	RemoteKey  string `json:"remote_key"`
	CreatedAt  int64  `json:"created_at"`
}

// PresignPutRequest asks for an upload URL. The server derives the storage
// key itself; the filename only contributes its extension.
type PresignPutRequest struct {
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
}

// PresignPutResponse carries the storage key and the URL to PUT bytes to.
type PresignPutResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PresignGetResponse carries the URL to GET bytes from. The key travels as
// the "key" query parameter.
type PresignGetResponse struct {
	URL string `json:"url"`
}

// ErrorResponse is the JSON body sent with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
