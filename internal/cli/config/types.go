// Package config provides configuration management for the sqlsift CLI.
//
// Configuration is layered: defaults, then a sqlsift.yaml file, then
// SQLSIFT_* environment variables, then command-line flags. Later layers
// win.
package config

// Config holds all CLI configuration options.
type Config struct {
	// DefaultDatabase qualifies unqualified table names as
	// database.table. Empty leaves names bare.
	DefaultDatabase string `koanf:"default_database"`
	// OutputFormat selects how results are rendered: text, json, table.
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`
	// IndexPath is the SQLite scan index location.
	IndexPath string        `koanf:"index_path"`
	Server    *ServerConfig `koanf:"server"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr string `koanf:"addr"`
	// MaxRequestBytes caps the accepted request body size.
	MaxRequestBytes int64 `koanf:"max_request_bytes"`
}

// Default configuration values.
const (
	DefaultOutput          = "text"
	DefaultIndexFile       = ".sqlsift/index.db"
	DefaultServerAddr      = ":8080"
	DefaultMaxRequestBytes = 10 << 20 // 10 MiB
)

// GetServerConfig returns the server config with defaults applied for
// any unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return &ServerConfig{
			Addr:            DefaultServerAddr,
			MaxRequestBytes: DefaultMaxRequestBytes,
		}
	}
	srv := c.Server
	if srv.Addr == "" {
		srv.Addr = DefaultServerAddr
	}
	if srv.MaxRequestBytes == 0 {
		srv.MaxRequestBytes = DefaultMaxRequestBytes
	}
	return srv
}
