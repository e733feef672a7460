package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/greenhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      backend origin
//	-ai string     AI service base URL
//	-agent string  AI agent name
//	-t duration    request timeout, e.g. 10s
//	-d string      data directory
//	-l string      log level
//	-f string      log format (text, json, console)
//
// Only these flags are parsed; the rest of args is ignored (see
// flagx.FilterArgs).
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-ai", "-agent", "-t", "-d", "-l", "-f"})

	fs := flag.NewFlagSet("greenhub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend origin")
	fs.StringVar(&cfg.AIURL, "ai", cfg.AIURL, "AI service base URL")
	fs.StringVar(&cfg.AIAgent, "agent", cfg.AIAgent, "AI agent name")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
