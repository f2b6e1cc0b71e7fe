package action

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dsd-tools/dsdctl/internal/execx"
)

type NukeOptions struct {
	// Yes skips the confirmation prompt.
	Yes bool
}

// Nuke force-removes every running container, then redeploys the full
// stack. Individual kill failures never stop the loop; the redeploy is
// the action's final gate.
func (e *Executor) Nuke(ctx context.Context, opts NukeOptions) error {
	if !opts.Yes && !e.confirmNuke() {
		e.printer.Success("Nuke aborted!")
		return nil
	}
	e.printer.Warn("Nuking docker containers")

	containers, err := e.inv.ListRunning(ctx)
	if err != nil {
		return err
	}

	var failures []ItemFailure
	if len(containers) == 0 {
		e.printer.Error("No containers running")
	} else {
		e.printer.Warn("Killing docker containers...")
		for _, c := range containers {
			spec := execx.Spec{
				Command:      e.cfg.Docker.Binary,
				Args:         []string{"rm", "-f", c.ID},
				InheritStdio: true,
			}
			res, err := e.runner.Run(ctx, spec)
			if err != nil {
				e.logger.Error().Err(err).Str("container", c.Name).Msg("kill did not start")
				failures = append(failures, ItemFailure{Container: c.Name, Command: spec.String(), ExitCode: -1})
				continue
			}
			if !res.Ok() {
				failures = append(failures, ItemFailure{Container: c.Name, Command: spec.String(), ExitCode: res.ExitCode})
			}
		}
	}

	e.printer.Success("Running %s...", e.cfg.Deploy.Service)
	deploy := execx.Spec{
		Command:      e.cfg.Docker.Binary,
		Args:         []string{"compose", "-f", e.cfg.Deploy.ComposePath, "up", "-d"},
		InheritStdio: true,
	}
	res, err := e.runner.Run(ctx, deploy)
	if err != nil {
		return &PipelineError{Action: "nuke", Stage: "deploy", Err: err}
	}
	if !res.Ok() {
		return &PipelineError{Action: "nuke", Stage: "deploy", Err: fmt.Errorf("%s exited %d", deploy, res.ExitCode)}
	}

	e.printer.Success("Following logs until all containers deployed...")
	e.followDeployerLogs(ctx)

	if len(failures) > 0 {
		e.reportFailures("nuke", failures)
		return &PartialError{Action: "nuke", Failures: failures}
	}
	return nil
}

func (e *Executor) confirmNuke() bool {
	e.printer.Warn("WARNING: All of your containers will be forcefully removed!")
	e.printer.Plain("After removal, %s will be restarted to redeploy all associated containers.", e.printer.Highlight(e.cfg.Deploy.Service))
	e.printer.Prompt("Are you sure you want to nuke your docker stacks? [y/N]: ")

	line, err := bufio.NewReader(e.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
