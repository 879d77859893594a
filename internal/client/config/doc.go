// Package config loads runtime configuration for the field CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the sync server
//	-d string   path of the local database file
//	-o string   directory for staged attachment copies
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "database_path": "field.db",
//	  "data_dir": "attachments",
//	  "online_check_interval": "3s",
//	  "enqueue_delay": "500ms",
//	  "status_refresh_interval": "2s",
//	  "upload_poll_interval": "15s",
//	  "archive_after": "10m"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
