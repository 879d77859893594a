// Package models defines client-side data models used by the field CLI.
package models

// Area is a site grouping assets by physical location. Area IDs are what
// the rest of the system calls a site ID.
type Area struct {
	ID      string
	Name    string
	Version int64
	Deleted bool
}

// Status is a master-data dictionary entry describing asset condition
// (in service, under maintenance, decommissioned, ...).
type Status struct {
	ID      string
	Name    string
	Version int64
	Deleted bool
}

// Asset is a machine or piece of equipment installed at a site.
type Asset struct {
	ID       string
	AreaID   string
	StatusID string
	Name     string
	Serial   string
	Version  int64
	Deleted  bool
}

// Gateway is a data-collection device installed at a site, bridging
// measurement points to the backend.
type Gateway struct {
	ID      string
	AreaID  string
	Name    string
	Serial  string
	Version int64
	Deleted bool
}

// Point is a measurement point on an asset, read through a gateway.
type Point struct {
	ID        string
	AssetID   string
	GatewayID string
	Name      string
	Unit      string
	Version   int64
	Deleted   bool
}
