package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsd-tools/dsdctl/internal/execx"
)

type UpdateOptions struct {
	TargetOptions
}

// newImageSentinel appears in docker pull output only when a newer
// image was actually downloaded.
const newImageSentinel = "Status: Downloaded newer image"

// Update pulls the latest image for each selected container, then
// restarts the deployer so it redeploys with the new images. The two
// stages are hard-gated: any pull failure aborts before the deployer is
// touched, and an all-current fleet skips the restart entirely.
func (e *Executor) Update(ctx context.Context, opts UpdateOptions) error {
	targets, err := e.resolveTargets(ctx, opts.TargetOptions)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		e.printer.Error("No containers running")
		return nil
	}

	updated := 0
	for _, name := range targets {
		fresh, err := e.pullImageFor(ctx, name)
		if err != nil {
			return &PipelineError{Action: "update", Stage: "pull", Err: err}
		}
		if fresh {
			updated++
		}
	}

	if updated == 0 {
		e.printer.Warn("No new container images to update")
		return nil
	}

	e.printer.Info("New images pulled: %d", updated)
	e.printer.Success("Restarting %s", e.cfg.Deploy.Service)
	deploy := execx.Spec{
		Command:      e.cfg.Docker.Binary,
		Args:         []string{"restart", e.cfg.Deploy.Service},
		InheritStdio: true,
	}
	res, err := e.runner.Run(ctx, deploy)
	if err != nil {
		return &PipelineError{Action: "update", Stage: "deploy", Err: err}
	}
	if !res.Ok() {
		return &PipelineError{Action: "update", Stage: "deploy", Err: fmt.Errorf("%s exited %d", deploy, res.ExitCode)}
	}
	return nil
}

// pullImageFor resolves the container's image and pulls it, reporting
// whether a newer image came down.
func (e *Executor) pullImageFor(ctx context.Context, name string) (bool, error) {
	res, err := e.runner.Run(ctx, execx.Spec{
		Command: e.cfg.Docker.Binary,
		Args:    []string{"inspect", "--format", "{{.Config.Image}}", name},
	})
	if err != nil {
		return false, err
	}
	if !res.Ok() {
		return false, fmt.Errorf("inspect %s exited %d", name, res.ExitCode)
	}
	image := strings.TrimSpace(res.Stdout)

	e.printer.Info("Pulling image for %s: %s", name, image)

	fresh := false
	pull := execx.Spec{Command: e.cfg.Docker.Binary, Args: []string{"pull", image}}
	pullRes, err := e.runner.Stream(ctx, pull, func(line string) bool {
		e.printer.Plain("%s", line)
		if strings.Contains(line, newImageSentinel) {
			fresh = true
		}
		return true
	})
	if err != nil {
		return false, err
	}
	if !pullRes.Ok() {
		return false, fmt.Errorf("pull %s exited %d", image, pullRes.ExitCode)
	}
	return fresh, nil
}
