// Command coldsweat-cgi serves a single Coldsweat request under a CGI-capable
// web server. Point the server's script alias at this binary.
package main

import (
	"fmt"
	"os"

	"github.com/Yathushan/coldsweat/internal/bootstrap"
	"github.com/Yathushan/coldsweat/internal/interfaces/cgi"
	"github.com/Yathushan/coldsweat/pkg/config"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "coldsweat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// stdout carries the response.
	log := logger.NewWithWriter(cfg.LogLevel, os.Stderr)

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("Failed to release resources", "error", err.Error())
		}
	}()

	return cgi.FromEnvironment().Run(app.Handler)
}
