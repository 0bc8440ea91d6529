package config

import "github.com/spf13/pflag"

// BindFlags registers persistent flags whose defaults are the values already
// in cfg, so parsing the command line overrides defaults and JSON alike.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.ServerEndpointAddr, "addr", "a", cfg.ServerEndpointAddr, "address and port of the settings server")
	fs.StringVarP(&cfg.AccessToken, "token", "t", cfg.AccessToken, "access token")
	fs.DurationVarP(&cfg.RequestTimeout, "timeout", "r", cfg.RequestTimeout, "per-request timeout")
	fs.StringVarP(&cfg.LogFile, "log-file", "l", cfg.LogFile, "log file (\"-\" for stderr)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.StateDB, "state-db", cfg.StateDB, "local state database path")
	fs.StringP("config", "c", "", "path to JSON config file")
}
