package config

import "time"

// Config holds runtime settings for the settings client.
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	RequestTimeout     time.Duration
	LogFile            string
	LogLevel           string
	StateDB            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AccessToken = ""
	c.RequestTimeout = 10 * time.Second
	c.LogFile = "gophsettings.log"
	c.LogLevel = "info"
	c.StateDB = "gophsettings.db"
}

// LoadConfig applies defaults and then the JSON file named by -c/--config.
// Command-line flags are layered on top by BindFlags once the command line
// is parsed.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	return cfg
}
