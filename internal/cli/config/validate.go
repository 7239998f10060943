package config

import "fmt"

// validOutputs lists the accepted output formats.
var validOutputs = map[string]bool{
	"text":  true,
	"json":  true,
	"table": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validOutputs[c.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want text, json, or table)", c.OutputFormat)
	}
	if srv := c.GetServerConfig(); srv.MaxRequestBytes < 0 {
		return fmt.Errorf("server.max_request_bytes must not be negative")
	}
	return nil
}
