package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dsd-tools/dsdctl/internal/action"
	"github.com/dsd-tools/dsdctl/internal/config"
	"github.com/dsd-tools/dsdctl/internal/execx"
	"github.com/dsd-tools/dsdctl/internal/inventory"
)

type contextKey string

const configKey = contextKey("config")

// Process exit codes, one per failure class.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitSpawn       = 3
	exitInventory   = 4
	exitPartial     = 5
	exitPipeline    = 6
	exitInterrupted = 130
)

var version = "dev"

// newExecutor builds the action executor lazily, so help and usage
// paths never construct clients or spawn anything. Swapped in tests.
var newExecutor = defaultExecutor

// preRunRan distinguishes parse/usage failures from action failures.
var preRunRan = false

var rootCmd = &cobra.Command{
	Use:           "dsdctl",
	Short:         "A simple helper for managing your docker-stack-deploy containers.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		preRunRan = true
		if err := config.InitConfig(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [containers...]",
	Short: "View container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		tail, _ := cmd.Flags().GetInt("tail")
		return exec.Logs(cmd.Context(), action.LogsOptions{
			TargetOptions: targetOptions(cmd, args),
			Tail:          tail,
		})
	},
}

var nukeCmd = &cobra.Command{
	Use:   "nuke",
	Short: "Kill all docker containers and redeploy docker-stack-deploy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		return exec.Nuke(cmd.Context(), action.NukeOptions{Yes: yes})
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart [containers...]",
	Short: "Restart containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		return exec.Restart(cmd.Context(), action.RestartOptions{TargetOptions: targetOptions(cmd, args)})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [containers...]",
	Short: "Update container images and redeploy",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		return exec.Update(cmd.Context(), action.UpdateOptions{TargetOptions: targetOptions(cmd, args)})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [containers...]",
	Short: "View stats for docker containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		return exec.Stats(cmd.Context(), action.StatsOptions{TargetOptions: targetOptions(cmd, args)})
	},
}

var initCmd = &cobra.Command{
	Use:   "init <git-url>",
	Short: "Initialize and bootstrap a new instance of docker-stack-deploy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		projectDir, _ := cmd.Flags().GetString("project-dir")
		return exec.Init(cmd.Context(), action.InitOptions{ProjectDir: projectDir, GitURL: args[0]})
	},
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("stacks", "s", nil, "operate on all containers in the given stacks")
	cmd.Flags().BoolP("all", "a", false, "operate on all running containers")
}

func targetOptions(cmd *cobra.Command, args []string) action.TargetOptions {
	stacks, _ := cmd.Flags().GetStringSlice("stacks")
	all, _ := cmd.Flags().GetBool("all")
	return action.TargetOptions{Containers: args, Stacks: stacks, All: all}
}

func init() {
	rootCmd.Flags().BoolP("version", "V", false, "version for dsdctl")

	logsCmd.Flags().Int("tail", 100, "number of lines to show from the end of the logs")
	addTargetFlags(logsCmd)

	nukeCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	addTargetFlags(restartCmd)
	addTargetFlags(updateCmd)
	addTargetFlags(statsCmd)

	initCmd.Flags().String("project-dir", "/var/lib/docker-stack-deploy", "path where the docker-stack-deploy compose file will be located")

	rootCmd.AddCommand(logsCmd, nukeCmd, restartCmd, updateCmd, statsCmd, initCmd)
}

// Execute runs the root command and translates the outcome into the
// process exit code.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Forward SIGINT/SIGTERM through context cancellation; the runner
	// relays the interrupt to any child before the tool exits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		if ctx.Err() != nil {
			os.Exit(exitInterrupted)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if !preRunRan {
		fmt.Fprintln(os.Stderr, `Run "dsdctl --help" for usage.`)
		os.Exit(exitUsage)
	}
	os.Exit(exitCodeFor(err))
}

// exitCodeFor maps an error to its failure class, most specific first.
func exitCodeFor(err error) int {
	var spawnErr *execx.SpawnError
	var invErr *inventory.Error
	var partialErr *action.PartialError
	var pipelineErr *action.PipelineError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, action.ErrNoTargets):
		return exitUsage
	case errors.As(err, &spawnErr):
		return exitSpawn
	case errors.As(err, &invErr):
		return exitInventory
	case errors.As(err, &partialErr):
		return exitPartial
	case errors.As(err, &pipelineErr):
		return exitPipeline
	default:
		return exitError
	}
}
