package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophsettings/internal/flagx"
	"github.com/dmitrijs2005/gophsettings/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both strings such as "5s" and integer nanoseconds.
//
// Only fields present in the file are copied onto Config; everything else
// keeps its default.
type JsonConfig struct {
	EndpointAddrGRPC  string          `json:"endpoint_addr_grpc"`
	DatabaseDSN       string          `json:"database_dsn"`
	SecretKey         string          `json:"secret_key"`
	EncryptionSalt    string          `json:"encryption_salt"`
	Mode              string          `json:"mode"`
	CatalogSource     string          `json:"catalog_source"`
	ProvisionDefaults *bool           `json:"provision_defaults"`
	ShutdownTimeout   *timex.Duration `json:"shutdown_timeout"`
	LogLevel          string          `json:"log_level"`
	S3RootUser        string          `json:"s3_root_user"`
	S3RootPassword    string          `json:"s3_root_password"`
	S3Bucket          string          `json:"s3_bucket"`
	S3Region          string          `json:"s3_region"`
	S3BaseEndpoint    string          `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Without the flag nothing is loaded. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.EncryptionSalt, c.EncryptionSalt)
	setString(&config.Mode, c.Mode)
	setString(&config.CatalogSource, c.CatalogSource)
	if c.ProvisionDefaults != nil {
		config.ProvisionDefaults = *c.ProvisionDefaults
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
