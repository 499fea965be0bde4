package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/webmajiang/mjnet/internal/errors"
	"github.com/webmajiang/mjnet/pkg/client"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "mjnet.yaml"

	// DefaultServerURL is the default game server endpoint.
	DefaultServerURL = "ws://localhost:8080/ws"

	// DefaultRoomID is the room joined when none is configured.
	DefaultRoomID = "room-1"
)

// Config represents the complete mjnet.yaml configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Player    PlayerConfig    `yaml:"player"`
	Room      RoomConfig      `yaml:"room"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Logging   LogConfig       `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Capture   CaptureConfig   `yaml:"capture"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig holds the game server endpoint.
type ServerConfig struct {
	URL              string        `yaml:"url"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// PlayerConfig identifies the local player. An empty ID is filled in by
// the command with a random one.
type PlayerConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// RoomConfig selects the room to join.
type RoomConfig struct {
	ID string `yaml:"id"`
}

// ReconnectConfig holds the automatic reconnect settings.
type ReconnectConfig struct {
	Enabled bool          `yaml:"enabled"`
	Delay   time.Duration `yaml:"delay"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// CaptureConfig controls frame capture. Captures are written to Dir and,
// when S3Bucket is set, uploaded after the session.
type CaptureConfig struct {
	Dir      string `yaml:"dir"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
	S3Region string `yaml:"s3_region"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	def := client.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			URL:              DefaultServerURL,
			HandshakeTimeout: def.HandshakeTimeout,
		},
		Room: RoomConfig{
			ID: DefaultRoomID,
		},
		Reconnect: ReconnectConfig{
			Enabled: def.Reconnect,
			Delay:   def.ReconnectDelay,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Capture: CaptureConfig{
			S3Prefix: "captures/",
		},
	}
}

// Load looks for mjnet.yaml in the current directory, then in
// ~/.config/mjnet. Without a file it returns the defaults.
func Load() (*Config, error) {
	if path := findConfigFile(); path != "" {
		return LoadFromFile(path)
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads configuration from the specified file path. Fields
// missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithFile(path).
				WithDetail("No " + ConfigFileName + " found at " + path)
		}
		return nil, errors.New("E101").WithFile(path).Wrap(err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithLocationFromError(path, err).
			Wrap(err)
	}
	cfg.configPath = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E103").Wrap(err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New("E103").WithFile(path).Wrap(err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E103").WithFile(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		e := errors.New("E102").WithDetail(fmt.Sprintf(format, args...))
		if c.configPath != "" {
			e.WithFile(c.configPath)
		}
		return e
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Host == "" {
		return invalid("server.url %q is not a URL", c.Server.URL)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return invalid("server.url must use ws or wss, got %q", u.Scheme)
	}
	if c.Room.ID == "" {
		return invalid("room.id cannot be empty")
	}
	if c.Reconnect.Delay < 0 {
		return invalid("reconnect.delay cannot be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return invalid("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Capture.S3Bucket != "" && c.Capture.Dir == "" {
		return invalid("capture.s3_bucket requires capture.dir")
	}
	return nil
}

// ClientConfig returns the connection settings for a client.Manager.
func (c *Config) ClientConfig() *client.Config {
	cfg := client.DefaultConfig().WithReconnect(c.Reconnect.Enabled, c.Reconnect.Delay)
	if c.Server.HandshakeTimeout > 0 {
		cfg.HandshakeTimeout = c.Server.HandshakeTimeout
	}
	return cfg
}

// findConfigFile searches for the configuration file.
func findConfigFile() string {
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "mjnet", ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultPath returns where 'config init' writes the configuration.
func DefaultPath() string {
	return ConfigFileName
}
