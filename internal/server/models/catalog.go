package models

// Catalog entities are master data maintained on the server and pulled by
// clients. Every row carries a monotonically increasing Version drawn from a
// global sequence; clients sync by asking for rows with Version greater than
// their stored cursor. Rows are never physically removed, Deleted marks
// tombstones so clients can drop local copies.

// Area is a physical site or zone assets are grouped under.
type Area struct {
	ID      string
	Name    string
	Version int64
	Deleted bool
}

// Status is a dictionary value describing asset condition.
type Status struct {
	ID      string
	Name    string
	Version int64
	Deleted bool
}

// Asset is a serviceable piece of equipment located in an area.
type Asset struct {
	ID       string
	AreaID   string
	StatusID string
	Name     string
	Serial   string
	Version  int64
	Deleted  bool
}

// Gateway is a data-collection device installed in an area.
type Gateway struct {
	ID      string
	AreaID  string
	Name    string
	Serial  string
	Version int64
	Deleted bool
}

// Point is a measurement point on an asset, optionally wired to a gateway.
type Point struct {
	ID        string
	AssetID   string
	GatewayID string
	Name      string
	Unit      string
	Version   int64
	Deleted   bool
}
