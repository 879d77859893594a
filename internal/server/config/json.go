package config

import (
	"encoding/json"
	"os"

	"github.com/kaman1990/field-service-sub001/internal/flagx"
	"github.com/kaman1990/field-service-sub001/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify token lifetimes either as strings like
// "15m" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
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

	if jc.EndpointAddrHTTP != "" {
		cfg.EndpointAddrHTTP = jc.EndpointAddrHTTP
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.RefreshTokenValidityDuration.Duration > 0 {
		cfg.RefreshTokenValidityDuration = jc.RefreshTokenValidityDuration.Duration
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
}
