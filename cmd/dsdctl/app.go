package main

import (
	"fmt"
	"os"

	dockerCli "github.com/docker/docker/client"
	"github.com/spf13/cobra"

	"github.com/dsd-tools/dsdctl/internal/action"
	"github.com/dsd-tools/dsdctl/internal/config"
	"github.com/dsd-tools/dsdctl/internal/execx"
	"github.com/dsd-tools/dsdctl/internal/inventory"
	"github.com/dsd-tools/dsdctl/internal/logger"
	"github.com/dsd-tools/dsdctl/internal/printer"
)

// defaultExecutor wires the real runner, inventory backend, and printer
// from the loaded configuration.
func defaultExecutor(cmd *cobra.Command) (executor, error) {
	cfg := cmd.Context().Value(configKey).(*config.Config)
	log := logger.SetupLogger(&cfg.Logging)
	out := printer.New(os.Stdout, cfg.NoColor)
	runner := execx.NewRunner(log)

	var inv inventory.Inventory
	switch cfg.Docker.Backend {
	case "api":
		cli, err := dockerCli.NewClientWithOpts(dockerCli.FromEnv, dockerCli.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("failed to create docker client: %w", err)
		}
		inv = inventory.NewAPI(cli, &cfg.Stack, log)
	default:
		inv = inventory.NewCLI(runner, &cfg.Stack, cfg.Docker.Binary, log)
	}

	return action.NewExecutor(cfg, runner, inv, out, log), nil
}
