package action

import (
	"context"
	"errors"
	"strconv"

	"github.com/dsd-tools/dsdctl/internal/execx"
)

type LogsOptions struct {
	TargetOptions
	Tail int
}

// Logs follows container logs, one container at a time, prefixing each
// line with a timestamp and the container name. With no selection at
// all it falls back to the most recently started container.
func (e *Executor) Logs(ctx context.Context, opts LogsOptions) error {
	targets, err := e.resolveTargets(ctx, opts.TargetOptions)
	if errors.Is(err, ErrNoTargets) {
		targets, err = e.defaultLogsTarget(ctx)
	}
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		e.printer.Error("No containers running")
		return nil
	}

	e.printer.Info("Following logs for %d container(s)...", len(targets))

	var failures []ItemFailure
	for _, name := range targets {
		spec := execx.Spec{
			Command: e.cfg.Docker.Binary,
			Args:    []string{"logs", name, "--tail", strconv.Itoa(opts.Tail), "--follow"},
		}
		res, err := e.runner.Stream(ctx, spec, func(line string) bool {
			e.printer.ContainerLine(name, line)
			return true
		})
		if ctx.Err() != nil {
			// User interrupt; the child was already signaled.
			return nil
		}
		if err != nil {
			var spawnErr *execx.SpawnError
			if errors.As(err, &spawnErr) && len(targets) > 1 {
				e.printer.Error("[ERROR] - Failed to log %s", name)
				failures = append(failures, ItemFailure{Container: name, Command: spec.String(), ExitCode: -1})
				continue
			}
			return err
		}
		if !res.Ok() {
			failures = append(failures, ItemFailure{Container: name, Command: spec.String(), ExitCode: res.ExitCode})
		}
	}

	if len(failures) > 0 {
		e.reportFailures("logs", failures)
		return &PartialError{Action: "logs", Failures: failures}
	}
	return nil
}

// defaultLogsTarget picks the runtime's first-reported container, which
// docker lists newest first.
func (e *Executor) defaultLogsTarget(ctx context.Context) ([]string, error) {
	containers, err := e.inv.ListRunning(ctx)
	if err != nil {
		return nil, err
	}
	if len(containers) == 0 {
		return nil, nil
	}
	return []string{containers[0].Name}, nil
}
