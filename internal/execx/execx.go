package execx

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Spec describes a single external command invocation.
type Spec struct {
	Command string
	Args    []string
	// Dir overrides the working directory when set.
	Dir string
	// InheritStdio wires the child directly to the invoking terminal
	// instead of capturing its output.
	InheritStdio bool
}

func (s Spec) String() string {
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}

// Result is the outcome of one finished invocation. A nonzero exit code
// is a value for the caller to inspect, not an error.
type Result struct {
	ExitCode int
	Stdout   string
}

func (r Result) Ok() bool { return r.ExitCode == 0 }

// SpawnError reports a command that could not be started at all, as
// opposed to one that ran and exited nonzero.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn %s: %v", e.Command, e.Err) }

func (e *SpawnError) Unwrap() error { return e.Err }

// Runner executes external commands, one child at a time.
type Runner interface {
	// Run starts the command and waits for it to exit. Stdout is
	// captured unless the spec inherits stdio.
	Run(ctx context.Context, spec Spec) (Result, error)
	// Stream pipes the child's stdout and stderr line-wise into handle.
	// When handle returns false the child is interrupted and Stream
	// returns a zero Result.
	Stream(ctx context.Context, spec Spec, handle func(line string) bool) (Result, error)
}

// killGracePeriod bounds how long a child may linger between the
// forwarded interrupt and the hard kill.
const killGracePeriod = 5 * time.Second

type osRunner struct {
	logger zerolog.Logger
}

func NewRunner(logger zerolog.Logger) Runner {
	return &osRunner{logger: logger}
}

func (r *osRunner) command(ctx context.Context, spec Spec) *exec.Cmd {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	// Forward an interrupt on cancellation so a streaming child can
	// flush and exit before the hard kill.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = killGracePeriod
	return cmd
}

func (r *osRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	r.logger.Debug().Str("command", spec.String()).Msg("running command")

	cmd := r.command(ctx, spec)
	var out strings.Builder
	if spec.InheritStdio {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &out
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return Result{}, &SpawnError{Command: spec.Command, Err: err}
	}
	return resultOf(out.String(), cmd.Wait())
}

func (r *osRunner) Stream(ctx context.Context, spec Spec, handle func(line string) bool) (Result, error) {
	r.logger.Debug().Str("command", spec.String()).Msg("streaming command")

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := r.command(streamCtx, spec)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, &SpawnError{Command: spec.Command, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, &SpawnError{Command: spec.Command, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return Result{}, &SpawnError{Command: spec.Command, Err: err}
	}

	lines := make(chan string)
	var wg sync.WaitGroup
	for _, pipe := range []io.Reader{stdout, stderr} {
		wg.Add(1)
		go func(pipe io.Reader) {
			defer wg.Done()
			scanner := bufio.NewScanner(pipe)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-streamCtx.Done():
					return
				}
			}
		}(pipe)
	}
	go func() {
		wg.Wait()
		close(lines)
	}()

	stopped := false
	for line := range lines {
		if !handle(line) {
			stopped = true
			cancel()
			break
		}
	}

	waitErr := cmd.Wait()
	for range lines {
		// drain so the reader goroutines can exit
	}

	if stopped && ctx.Err() == nil {
		// The handler asked for the stop; the child's interrupt-driven
		// exit status is not a failure.
		return Result{}, nil
	}
	return resultOf("", waitErr)
}

func resultOf(stdout string, err error) (Result, error) {
	if err == nil {
		return Result{ExitCode: 0, Stdout: stdout}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode(), Stdout: stdout}, nil
	}
	return Result{ExitCode: -1, Stdout: stdout}, err
}
