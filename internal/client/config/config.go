package config

import "time"

// Config holds runtime settings for the field CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the sync server API.
//   - DatabasePath: path of the local SQLite database file.
//   - DataDir: directory holding staged attachment copies.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - EnqueueDelay: pause between successive photo enqueues in one batch.
//   - StatusRefreshInterval: upload status reporter poll interval.
//   - UploadPollInterval: attachment worker tick.
//   - ArchiveAfter: how long a synced upload keeps its staged copy.
type Config struct {
	ServerEndpointAddr    string
	DatabasePath          string
	DataDir               string
	OnlineCheckInterval   time.Duration
	EnqueueDelay          time.Duration
	StatusRefreshInterval time.Duration
	UploadPollInterval    time.Duration
	ArchiveAfter          time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "field.db"
	c.DataDir = "attachments"
	c.OnlineCheckInterval = 3 * time.Second
	c.EnqueueDelay = 500 * time.Millisecond
	c.StatusRefreshInterval = 2 * time.Second
	c.UploadPollInterval = 15 * time.Second
	c.ArchiveAfter = 10 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
