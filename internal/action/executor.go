// Package action implements the operator actions as ordered sequences
// of external command invocations. Per-container loops are best-effort
// and aggregate failures; whole-stack stages are gated and fail fast.
package action

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsd-tools/dsdctl/internal/config"
	"github.com/dsd-tools/dsdctl/internal/execx"
	"github.com/dsd-tools/dsdctl/internal/inventory"
	"github.com/dsd-tools/dsdctl/internal/printer"
)

// Executor runs the operator actions against the managed stack.
type Executor struct {
	cfg     *config.Config
	runner  execx.Runner
	inv     inventory.Inventory
	printer *printer.Printer
	logger  zerolog.Logger

	// Stdin feeds confirmation prompts; defaults to os.Stdin.
	Stdin io.Reader
}

func NewExecutor(cfg *config.Config, runner execx.Runner, inv inventory.Inventory, p *printer.Printer, logger zerolog.Logger) *Executor {
	return &Executor{
		cfg:     cfg,
		runner:  runner,
		inv:     inv,
		printer: p,
		logger:  logger,
		Stdin:   os.Stdin,
	}
}

// TargetOptions selects which containers an action operates on.
type TargetOptions struct {
	Containers []string
	Stacks     []string
	All        bool
}

// resolveTargets turns the selection flags into container names.
// Explicit names are passed through unmodified; --all and --stacks go
// through the inventory.
func (e *Executor) resolveTargets(ctx context.Context, opts TargetOptions) ([]string, error) {
	switch {
	case opts.All:
		containers, err := e.inv.ListRunning(ctx)
		if err != nil {
			return nil, err
		}
		return containerNames(containers), nil
	case len(opts.Containers) > 0:
		return opts.Containers, nil
	case len(opts.Stacks) > 0:
		var names []string
		for _, stack := range opts.Stacks {
			containers, err := e.inv.ListStack(ctx, stack)
			if err != nil {
				return nil, err
			}
			names = append(names, containerNames(containers)...)
		}
		return names, nil
	default:
		return nil, ErrNoTargets
	}
}

func containerNames(containers []inventory.Container) []string {
	names := make([]string, 0, len(containers))
	for _, c := range containers {
		names = append(names, c.Name)
	}
	return names
}

func (e *Executor) reportFailures(action string, failures []ItemFailure) {
	e.printer.Error("%s finished with %d failure(s):", action, len(failures))
	for _, f := range failures {
		e.printer.Error("  %s", f)
	}
}

// deployedSentinel is printed by the deployer once per idle update
// check; its second occurrence means the post-deploy check has run.
const deployedSentinel = "Already up to date"

// followDeployerLogs tails the deployer's compose logs until the first
// update check after deployment, then stops the child. Best effort: a
// follow failure is logged, not propagated.
func (e *Executor) followDeployerLogs(ctx context.Context) {
	since := strconv.FormatInt(time.Now().Unix(), 10)
	spec := execx.Spec{
		Command: e.cfg.Docker.Binary,
		Args: []string{
			"compose", "-f", e.cfg.Deploy.ComposePath,
			"logs", "--follow", "--no-log-prefix", "--since", since,
		},
	}

	seen := 0
	_, err := e.runner.Stream(ctx, spec, func(line string) bool {
		seen++
		e.printer.DeployerLine(e.cfg.Deploy.Service, line)
		// The sentinel on the very first line predates the deploy.
		return !(strings.Contains(line, deployedSentinel) && seen > 1)
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("could not follow deployer logs")
	}
}
