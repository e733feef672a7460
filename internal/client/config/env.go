package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the client reads.
const EnvPrefix = "GREENHUB_"

var osEnviron = os.Environ

// parseEnv overlays cfg with GREENHUB_* variables. Values from the dotenv
// file fill in variables that are not already set. Only variables that are
// present change cfg.
func parseEnv(cfg *Config, dotenv string, environ map[string]string) error {
	vars := environ
	if vars == nil {
		vars = env.ToMap(osEnviron())
	} else {
		vars = maps.Clone(vars)
	}

	if dotenv != "" {
		fileVars, err := godotenv.Read(dotenv)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("read %s: %w", dotenv, err)
		default:
			for k, v := range fileVars {
				if _, ok := vars[k]; !ok {
					vars[k] = v
				}
			}
		}
	}

	headers := cfg.ExtraHeaders
	cfg.ExtraHeaders = nil
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix, Environment: vars}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if cfg.ExtraHeaders == nil {
		cfg.ExtraHeaders = headers
	} else {
		for k, v := range headers {
			if _, ok := cfg.ExtraHeaders[k]; !ok {
				cfg.ExtraHeaders[k] = v
			}
		}
	}
	return nil
}
