package client

import "time"

// Config holds the connection settings of a Manager.
type Config struct {
	// Reconnect enables one automatic reconnect attempt after the connection
	// closes without Disconnect being called.
	// Default: false.
	Reconnect bool

	// ReconnectDelay is the wait before the automatic reconnect.
	// Default: 3 seconds.
	ReconnectDelay time.Duration

	// HandshakeTimeout is the maximum time for the WebSocket handshake.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame or the
	// close handshake.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming frame.
	// Default: 1MB.
	MaxMessageSize int64

	// WebSocket buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Reconnect:        false,
		ReconnectDelay:   3 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		MaxMessageSize:   1 << 20, // 1MB
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// WithReconnect enables or disables automatic reconnection and returns the
// config for chaining.
func (c *Config) WithReconnect(enabled bool, delay time.Duration) *Config {
	c.Reconnect = enabled
	if delay > 0 {
		c.ReconnectDelay = delay
	}
	return c
}

// normalize fills zero fields with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = def.ReconnectDelay
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = def.ReadBufferSize
	}
	if c.WriteBufferSize <= 0 {
		c.WriteBufferSize = def.WriteBufferSize
	}
}
