package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsd-tools/dsdctl/internal/config"
	"github.com/dsd-tools/dsdctl/internal/execx"
)

// fakeRunner returns scripted results keyed on the rendered command line
// and records every invocation.
type fakeRunner struct {
	results map[string]execx.Result
	errs    map[string]error
	calls   []execx.Spec
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]execx.Result{}, errs: map[string]error{}}
}

func (f *fakeRunner) Run(_ context.Context, spec execx.Spec) (execx.Result, error) {
	f.calls = append(f.calls, spec)
	if err, ok := f.errs[spec.String()]; ok {
		return execx.Result{}, err
	}
	return f.results[spec.String()], nil
}

func (f *fakeRunner) Stream(ctx context.Context, spec execx.Spec, handle func(string) bool) (execx.Result, error) {
	return f.Run(ctx, spec)
}

func stackConfig() *config.StackConfig {
	return &config.StackConfig{LabelKey: "com.docker.compose.project"}
}

func TestCLIListRunningResolvesNames(t *testing.T) {
	runner := newFakeRunner()
	runner.results["docker ps -q"] = execx.Result{Stdout: "abc123\ndef456\n"}
	runner.results["docker inspect --format {{.Name}} abc123"] = execx.Result{Stdout: "/web\n"}
	runner.results["docker inspect --format {{.Name}} def456"] = execx.Result{Stdout: "/db\n"}
	inv := NewCLI(runner, stackConfig(), "docker", zerolog.Nop())

	containers, err := inv.ListRunning(context.Background())

	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Equal(t, Container{ID: "abc123", Name: "web", Running: true}, containers[0])
	assert.Equal(t, Container{ID: "def456", Name: "db", Running: true}, containers[1])
}

func TestCLIListRunningFallsBackToIDWhenInspectFails(t *testing.T) {
	runner := newFakeRunner()
	runner.results["docker ps -q"] = execx.Result{Stdout: "abc123\n"}
	runner.results["docker inspect --format {{.Name}} abc123"] = execx.Result{ExitCode: 1}
	inv := NewCLI(runner, stackConfig(), "docker", zerolog.Nop())

	containers, err := inv.ListRunning(context.Background())

	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "abc123", containers[0].Name)
}

func TestCLIListStackFiltersByLabel(t *testing.T) {
	runner := newFakeRunner()
	runner.results["docker ps -q --filter label=com.docker.compose.project=media"] = execx.Result{Stdout: "abc123\n"}
	runner.results["docker inspect --format {{.Name}} abc123"] = execx.Result{Stdout: "/jellyfin\n"}
	inv := NewCLI(runner, stackConfig(), "docker", zerolog.Nop())

	containers, err := inv.ListStack(context.Background(), "media")

	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "jellyfin", containers[0].Name)
}

func TestCLIListRunningEmpty(t *testing.T) {
	runner := newFakeRunner()
	runner.results["docker ps -q"] = execx.Result{Stdout: "\n"}
	inv := NewCLI(runner, stackConfig(), "docker", zerolog.Nop())

	containers, err := inv.ListRunning(context.Background())

	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestCLIListRunningNonzeroExitIsInventoryError(t *testing.T) {
	runner := newFakeRunner()
	runner.results["docker ps -q"] = execx.Result{ExitCode: 1}
	inv := NewCLI(runner, stackConfig(), "docker", zerolog.Nop())

	_, err := inv.ListRunning(context.Background())

	var invErr *Error
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "list", invErr.Op)
}

func TestCLIListRunningSpawnErrorIsWrapped(t *testing.T) {
	runner := newFakeRunner()
	spawnErr := &execx.SpawnError{Command: "docker", Err: errors.New("not found")}
	runner.errs["docker ps -q"] = spawnErr
	inv := NewCLI(runner, stackConfig(), "docker", zerolog.Nop())

	_, err := inv.ListRunning(context.Background())

	var invErr *Error
	require.ErrorAs(t, err, &invErr)
	var unwrapped *execx.SpawnError
	assert.ErrorAs(t, err, &unwrapped)
}
