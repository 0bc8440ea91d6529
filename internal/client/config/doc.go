// Package config loads runtime configuration for the settings client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or --config.
//  3. Command-line flags registered by BindFlags, which override earlier values.
//
// Supported flags
//
//	-a, --addr string        address:port of the settings server
//	-t, --token string       access token sent with every call
//	-r, --timeout duration   per-request timeout, e.g. 5s
//	-l, --log-file string    log destination, "-" for stderr
//	    --log-level string   debug, info, warn or error
//	    --state-db string    local state database
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "request_timeout": "10s",
//	  "log_file": "gophsettings.log",
//	  "log_level": "info",
//	  "state_db": "gophsettings.db"
//	}
package config
