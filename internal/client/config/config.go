package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/client/media"
	"github.com/dmitrijs2005/greenhub/internal/flagx"
)

// Config holds runtime settings for the GreenHub client.
//
// Fields:
//   - ServerURL: backend origin, e.g. http://127.0.0.1:3000.
//   - AIURL, AIAgent: AI service base URL and the agent name in its paths.
//   - RealtimeURL: socket.io origin; empty means ServerURL.
//   - RequestTimeout: bound on every HTTP request; 0 disables it.
//   - DataDir, DBFile: where the local SQLite database lives.
//   - StoreSecret: secret for sealing stored credentials; empty means a
//     random per-device key kept in DataDir.
//   - ExtraHeaders: sent with every backend request.
type Config struct {
	ServerURL      string            `env:"SERVER_URL"`
	AIURL          string            `env:"AI_URL"`
	AIAgent        string            `env:"AI_AGENT"`
	RealtimeURL    string            `env:"REALTIME_URL"`
	RequestTimeout time.Duration     `env:"REQUEST_TIMEOUT"`
	DataDir        string            `env:"DATA_DIR"`
	DBFile         string            `env:"DB_FILE"`
	StoreSecret    string            `env:"STORE_SECRET"`
	LogLevel       string            `env:"LOG_LEVEL"`
	LogFormat      string            `env:"LOG_FORMAT"`
	ExtraHeaders   map[string]string `env:"EXTRA_HEADERS"`
	Media          media.Config      `envPrefix:"MEDIA_"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.AIURL = "http://127.0.0.1:8000/api"
	c.AIAgent = "adam"
	c.RealtimeURL = ""
	c.RequestTimeout = 15 * time.Second
	c.DataDir = ".greenhub"
	c.DBFile = "greenhub.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExtraHeaders = map[string]string{}
	c.Media = media.Config{}
}

// LoadConfig builds the configuration from os.Args, the environment and an
// optional .env file in the working directory.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], ".env", nil)
}

// Load applies, in order of increasing precedence: defaults, the config
// file named by -c/-config, the dotenv file, GREENHUB_* environment
// variables and flags. A nil environ reads the process environment; a
// missing dotenv file is ignored.
func Load(args []string, dotenv string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFile(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, dotenv, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the client cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server url is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	if c.DBFile == "" {
		return fmt.Errorf("db file is required")
	}
	return nil
}

// RealtimeOrigin is RealtimeURL, falling back to ServerURL.
func (c *Config) RealtimeOrigin() string {
	if c.RealtimeURL != "" {
		return c.RealtimeURL
	}
	return c.ServerURL
}

// DBPath joins the database file to dir unless DBFile is absolute or an
// in-memory DSN.
func (c *Config) DBPath(dir string) string {
	if c.DBFile == ":memory:" || strings.HasPrefix(c.DBFile, "file:") || filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(dir, c.DBFile)
}
