// Command coldsweat runs the Coldsweat web reader as a standalone HTTP
// server and manages its database and accounts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Yathushan/coldsweat/pkg/config"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "coldsweat",
		Short:        "Web RSS aggregator and reader",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCommand(),
		newSetupCommand(),
		newUpgradeCommand(),
		newUserCommand(),
	)

	return root
}

// loadConfig reads the configuration and builds the logger every command
// shares.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.NewWithWriter(cfg.LogLevel, os.Stderr), nil
}
