package action

import (
	"context"

	"github.com/dsd-tools/dsdctl/internal/execx"
)

type RestartOptions struct {
	TargetOptions
}

// Restart restarts the selected containers one by one, collecting
// failures instead of short-circuiting.
func (e *Executor) Restart(ctx context.Context, opts RestartOptions) error {
	targets, err := e.resolveTargets(ctx, opts.TargetOptions)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		e.printer.Error("No containers running")
		return nil
	}

	var failures []ItemFailure
	for _, name := range targets {
		e.printer.Info("Restarting container: %s", name)
		spec := execx.Spec{
			Command:      e.cfg.Docker.Binary,
			Args:         []string{"restart", name},
			InheritStdio: true,
		}
		res, err := e.runner.Run(ctx, spec)
		if err != nil {
			e.logger.Error().Err(err).Str("container", name).Msg("restart did not start")
			failures = append(failures, ItemFailure{Container: name, Command: spec.String(), ExitCode: -1})
			continue
		}
		if !res.Ok() {
			failures = append(failures, ItemFailure{Container: name, Command: spec.String(), ExitCode: res.ExitCode})
		}
	}

	if len(failures) > 0 {
		e.reportFailures("restart", failures)
		return &PartialError{Action: "restart", Failures: failures}
	}
	return nil
}
