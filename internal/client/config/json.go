package config

import (
	"encoding/json"
	"os"

	"github.com/kaman1990/field-service-sub001/internal/flagx"
	"github.com/kaman1990/field-service-sub001/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr    string         `json:"server_endpoint_addr"`
	DatabasePath          string         `json:"database_path"`
	DataDir               string         `json:"data_dir"`
	OnlineCheckInterval   timex.Duration `json:"online_check_interval"`
	EnqueueDelay          timex.Duration `json:"enqueue_delay"`
	StatusRefreshInterval timex.Duration `json:"status_refresh_interval"`
	UploadPollInterval    timex.Duration `json:"upload_poll_interval"`
	ArchiveAfter          timex.Duration `json:"archive_after"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c/-config flags. A missing path means no JSON is loaded. Only fields
// present in the file override earlier values; read or unmarshal errors
// panic (configuration is unusable, callers should not continue).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.EnqueueDelay.Duration > 0 {
		cfg.EnqueueDelay = jc.EnqueueDelay.Duration
	}
	if jc.StatusRefreshInterval.Duration > 0 {
		cfg.StatusRefreshInterval = jc.StatusRefreshInterval.Duration
	}
	if jc.UploadPollInterval.Duration > 0 {
		cfg.UploadPollInterval = jc.UploadPollInterval.Duration
	}
	if jc.ArchiveAfter.Duration > 0 {
		cfg.ArchiveAfter = jc.ArchiveAfter.Duration
	}
}
