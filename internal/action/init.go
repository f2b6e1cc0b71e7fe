package action

import (
	"context"
	"fmt"

	"github.com/dsd-tools/dsdctl/internal/execx"
)

type InitOptions struct {
	ProjectDir string
	GitURL     string
}

// Init bootstraps a fresh docker-stack-deploy instance from a git
// remote, then follows the deployer's logs until its first update
// check. The bootstrap gates the follow stage.
func (e *Executor) Init(ctx context.Context, opts InitOptions) error {
	bootstrap := execx.Spec{
		Command: e.cfg.Docker.Binary,
		Args: []string{
			"run", "--rm", "-it",
			"-v", "/var/run/docker.sock:/var/run/docker.sock",
			"-v", opts.ProjectDir + ":" + opts.ProjectDir,
			e.cfg.Deploy.Image,
			e.cfg.Deploy.Service, "bootstrap",
			"--project-dir", opts.ProjectDir,
			"--git-url", opts.GitURL,
		},
		InheritStdio: true,
	}
	res, err := e.runner.Run(ctx, bootstrap)
	if err != nil {
		return &PipelineError{Action: "init", Stage: "bootstrap", Err: err}
	}
	if !res.Ok() {
		return &PipelineError{Action: "init", Stage: "bootstrap", Err: fmt.Errorf("%s exited %d", bootstrap, res.ExitCode)}
	}

	e.printer.Plain("")
	e.printer.Success("Bootstrap success! Following %s logs...", e.cfg.Deploy.Service)
	e.printer.Plain("")
	e.followDeployerLogs(ctx)
	return nil
}
