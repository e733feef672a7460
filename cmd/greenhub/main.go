package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/greenhub/internal/buildinfo"
	"github.com/dmitrijs2005/greenhub/internal/client/cli"
	"github.com/dmitrijs2005/greenhub/internal/client/config"
	"github.com/dmitrijs2005/greenhub/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if err := run(config.LoadConfig, os.Stderr); err != nil {
		log.Printf("greenhub: %v", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so that main exits only after they ran.
func run(load func() (*config.Config, error), logOut io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, logOut)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client stopped", "err", err)
		return err
	}
	return nil
}
