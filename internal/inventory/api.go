package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/dsd-tools/dsdctl/internal/config"
)

type dockerClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// API lists containers through the Docker Engine API instead of the
// docker binary. Useful when the binary is not on PATH but the socket
// is reachable.
type API struct {
	cli      dockerClient
	labelKey string
	logger   zerolog.Logger
}

func NewAPI(cli dockerClient, cfg *config.StackConfig, logger zerolog.Logger) *API {
	return &API{
		cli:      cli,
		labelKey: cfg.LabelKey,
		logger:   logger,
	}
}

func (a *API) ListRunning(ctx context.Context) ([]Container, error) {
	return a.list(ctx, filters.NewArgs())
}

func (a *API) ListStack(ctx context.Context, stack string) ([]Container, error) {
	return a.list(ctx, filters.NewArgs(filters.Arg("label", fmt.Sprintf("%s=%s", a.labelKey, stack))))
}

func (a *API) list(ctx context.Context, filterArgs filters.Args) ([]Container, error) {
	summaries, err := a.cli.ContainerList(ctx, container.ListOptions{All: false, Filters: filterArgs})
	if err != nil {
		return nil, &Error{Op: "list", Err: err}
	}

	containers := lo.Map(summaries, func(s container.Summary, _ int) Container {
		name := s.ID
		if len(s.Names) > 0 {
			name = strings.TrimPrefix(s.Names[0], "/")
		}
		// All: false restricts the listing to running containers.
		return Container{ID: s.ID, Name: name, Running: true}
	})
	return containers, nil
}
