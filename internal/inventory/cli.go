package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/dsd-tools/dsdctl/internal/config"
	"github.com/dsd-tools/dsdctl/internal/execx"
)

// CLI lists containers by shelling out to the runtime's ps and inspect
// commands.
type CLI struct {
	runner   execx.Runner
	binary   string
	labelKey string
	logger   zerolog.Logger
}

func NewCLI(runner execx.Runner, cfg *config.StackConfig, binary string, logger zerolog.Logger) *CLI {
	return &CLI{
		runner:   runner,
		binary:   binary,
		labelKey: cfg.LabelKey,
		logger:   logger,
	}
}

func (c *CLI) ListRunning(ctx context.Context) ([]Container, error) {
	return c.list(ctx, nil)
}

func (c *CLI) ListStack(ctx context.Context, stack string) ([]Container, error) {
	return c.list(ctx, []string{"--filter", fmt.Sprintf("label=%s=%s", c.labelKey, stack)})
}

func (c *CLI) list(ctx context.Context, extra []string) ([]Container, error) {
	args := append([]string{"ps", "-q"}, extra...)
	res, err := c.runner.Run(ctx, execx.Spec{Command: c.binary, Args: args})
	if err != nil {
		return nil, &Error{Op: "list", Err: err}
	}
	if !res.Ok() {
		return nil, &Error{Op: "list", Err: fmt.Errorf("%s ps exited %d", c.binary, res.ExitCode)}
	}

	ids := strings.Fields(res.Stdout)
	containers := lo.Map(ids, func(id string, _ int) Container {
		name, err := c.containerName(ctx, id)
		if err != nil {
			c.logger.Debug().Err(err).Str("id", id).Msg("falling back to container id as name")
			name = id
		}
		return Container{ID: id, Name: name, Running: true}
	})
	return containers, nil
}

// containerName resolves a container id to its name. Docker reports
// names with a leading slash.
func (c *CLI) containerName(ctx context.Context, id string) (string, error) {
	res, err := c.runner.Run(ctx, execx.Spec{Command: c.binary, Args: []string{"inspect", "--format", "{{.Name}}", id}})
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("%s inspect exited %d", c.binary, res.ExitCode)
	}
	return strings.TrimPrefix(strings.TrimSpace(res.Stdout), "/"), nil
}
