package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsd-tools/dsdctl/internal/execx"
)

func scriptImage(runner *fakeRunner, name, image string, pullLines ...string) {
	runner.script("docker inspect --format {{.Config.Image}} "+name, scripted{result: execx.Result{Stdout: image + "\n"}})
	runner.script("docker pull "+image, scripted{lines: pullLines})
}

func TestUpdatePullFailureSkipsDeploy(t *testing.T) {
	runner := newFakeRunner()
	runner.script("docker inspect --format {{.Config.Image}} web", scripted{result: execx.Result{Stdout: "nginx:latest\n"}})
	runner.script("docker pull nginx:latest", scripted{result: execx.Result{ExitCode: 1}})
	e, _ := newTestExecutor(runner, &fakeInventory{})

	err := e.Update(context.Background(), UpdateOptions{TargetOptions: TargetOptions{Containers: []string{"web"}}})

	var pipeline *PipelineError
	require.ErrorAs(t, err, &pipeline)
	assert.Equal(t, "pull", pipeline.Stage)
	assert.Empty(t, runner.callsMatching("docker restart"), "deploy must never run after a failed pull")
}

func TestUpdatePullFailureStopsRemainingPulls(t *testing.T) {
	runner := newFakeRunner()
	runner.script("docker inspect --format {{.Config.Image}} web", scripted{result: execx.Result{Stdout: "nginx:latest\n"}})
	runner.script("docker pull nginx:latest", scripted{result: execx.Result{ExitCode: 1}})
	e, _ := newTestExecutor(runner, &fakeInventory{})

	err := e.Update(context.Background(), UpdateOptions{TargetOptions: TargetOptions{Containers: []string{"web", "db"}}})

	require.Error(t, err)
	assert.Empty(t, runner.callsMatching("docker inspect --format {{.Config.Image}} db"))
}

func TestUpdateFreshImageRestartsDeployer(t *testing.T) {
	runner := newFakeRunner()
	scriptImage(runner, "web", "nginx:latest",
		"latest: Pulling from library/nginx",
		"Status: Downloaded newer image for nginx:latest",
	)
	e, _ := newTestExecutor(runner, &fakeInventory{})

	err := e.Update(context.Background(), UpdateOptions{TargetOptions: TargetOptions{Containers: []string{"web"}}})

	require.NoError(t, err)
	assert.Equal(t, []string{"docker restart docker-stack-deploy"}, runner.callsMatching("docker restart"))
}

func TestUpdateNoFreshImagesSkipsDeployer(t *testing.T) {
	runner := newFakeRunner()
	scriptImage(runner, "web", "nginx:latest", "Status: Image is up to date for nginx:latest")
	e, out := newTestExecutor(runner, &fakeInventory{})

	err := e.Update(context.Background(), UpdateOptions{TargetOptions: TargetOptions{Containers: []string{"web"}}})

	require.NoError(t, err)
	assert.Empty(t, runner.callsMatching("docker restart"))
	assert.Contains(t, out.String(), "No new container images to update")
}

func TestUpdateDeployerRestartFailureIsPipelineError(t *testing.T) {
	runner := newFakeRunner()
	scriptImage(runner, "web", "nginx:latest", "Status: Downloaded newer image for nginx:latest")
	runner.script("docker restart docker-stack-deploy", scripted{result: execx.Result{ExitCode: 1}})
	e, _ := newTestExecutor(runner, &fakeInventory{})

	err := e.Update(context.Background(), UpdateOptions{TargetOptions: TargetOptions{Containers: []string{"web"}}})

	var pipeline *PipelineError
	require.ErrorAs(t, err, &pipeline)
	assert.Equal(t, "deploy", pipeline.Stage)
}

func TestUpdateSpawnFailureKeepsItsClass(t *testing.T) {
	runner := newFakeRunner()
	spawnErr := &execx.SpawnError{Command: "docker"}
	runner.script("docker inspect --format {{.Config.Image}} web", scripted{err: spawnErr})
	e, _ := newTestExecutor(runner, &fakeInventory{})

	err := e.Update(context.Background(), UpdateOptions{TargetOptions: TargetOptions{Containers: []string{"web"}}})

	var pipeline *PipelineError
	require.ErrorAs(t, err, &pipeline)
	var unwrapped *execx.SpawnError
	assert.ErrorAs(t, err, &unwrapped)
}

func TestUpdateNoSelectionIsUsageError(t *testing.T) {
	e, _ := newTestExecutor(newFakeRunner(), &fakeInventory{})

	err := e.Update(context.Background(), UpdateOptions{})

	assert.ErrorIs(t, err, ErrNoTargets)
}
