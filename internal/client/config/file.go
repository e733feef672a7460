package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/media"
	"github.com/dmitrijs2005/greenhub/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape, used only for decoding. Durations use
// timex.Duration so files can say "15s" or give integer nanoseconds.
type FileConfig struct {
	ServerURL      string            `json:"server_url" yaml:"server_url"`
	AIURL          string            `json:"ai_url" yaml:"ai_url"`
	AIAgent        string            `json:"ai_agent" yaml:"ai_agent"`
	RealtimeURL    string            `json:"realtime_url" yaml:"realtime_url"`
	RequestTimeout *timex.Duration   `json:"request_timeout" yaml:"request_timeout"`
	DataDir        string            `json:"data_dir" yaml:"data_dir"`
	DBFile         string            `json:"db_file" yaml:"db_file"`
	StoreSecret    string            `json:"store_secret" yaml:"store_secret"`
	LogLevel       string            `json:"log_level" yaml:"log_level"`
	LogFormat      string            `json:"log_format" yaml:"log_format"`
	ExtraHeaders   map[string]string `json:"extra_headers" yaml:"extra_headers"`
	Media          *media.Config     `json:"media" yaml:"media"`
}

// parseFile overlays cfg with the non-empty values of the file at path.
// Files ending in .yaml or .yml are YAML, anything else JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.ServerURL, fc.ServerURL)
	set(&cfg.AIURL, fc.AIURL)
	set(&cfg.AIAgent, fc.AIAgent)
	set(&cfg.RealtimeURL, fc.RealtimeURL)
	set(&cfg.DataDir, fc.DataDir)
	set(&cfg.DBFile, fc.DBFile)
	set(&cfg.StoreSecret, fc.StoreSecret)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)

	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	for k, v := range fc.ExtraHeaders {
		if cfg.ExtraHeaders == nil {
			cfg.ExtraHeaders = map[string]string{}
		}
		cfg.ExtraHeaders[k] = v
	}
	if fc.Media != nil {
		cfg.Media = *fc.Media
	}
}
