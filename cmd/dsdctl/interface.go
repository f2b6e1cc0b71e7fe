package main

import (
	"context"

	"github.com/dsd-tools/dsdctl/internal/action"
)

type executor interface {
	Logs(ctx context.Context, opts action.LogsOptions) error
	Nuke(ctx context.Context, opts action.NukeOptions) error
	Restart(ctx context.Context, opts action.RestartOptions) error
	Update(ctx context.Context, opts action.UpdateOptions) error
	Init(ctx context.Context, opts action.InitOptions) error
	Stats(ctx context.Context, opts action.StatsOptions) error
}
