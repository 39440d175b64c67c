package config

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	// Addr is the listen address for the planning API.
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
