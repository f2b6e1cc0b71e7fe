package action

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsd-tools/dsdctl/internal/execx"
)

type StatsOptions struct {
	TargetOptions
}

// inspectFormat renders one comma-separated line per container:
// name,status,restart-policy,health,started-at,ports.
const inspectFormat = "{{.Name}}," +
	"{{.State.Status}}," +
	"{{if .HostConfig.RestartPolicy}}{{if .HostConfig.RestartPolicy.Name}}{{.HostConfig.RestartPolicy.Name}}{{else}}no{{end}}{{else}}no{{end}}," +
	"{{if index .State \"Health\"}}{{.State.Health.Status}}{{else}}N/A{{end}}," +
	"{{.State.StartedAt}}," +
	"{{if .NetworkSettings.Ports}}{{range $key, $value := .NetworkSettings.Ports}}{{$key}}{{if $value}}:{{(index $value 0).HostPort}}{{end}} {{end}}{{else}}N/A{{end}}"

type statsRow struct {
	name string
	cpu  string
	mem  string
}

type inspectRow struct {
	name          string
	status        string
	restartPolicy string
	health        string
	startedAt     string
	ports         string
}

// Stats prints a one-shot status table (state, health, uptime, cpu,
// memory, ports) for the selected containers, joining one docker stats
// call with one docker inspect call.
func (e *Executor) Stats(ctx context.Context, opts StatsOptions) error {
	targets, err := e.resolveTargets(ctx, opts.TargetOptions)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		e.printer.Error("No containers running")
		return nil
	}

	statsArgs := append([]string{"stats", "--no-stream", "--format", "table {{.Name}}\t{{.CPUPerc}}\t{{.MemPerc}}"}, targets...)
	statsRes, err := e.runner.Run(ctx, execx.Spec{Command: e.cfg.Docker.Binary, Args: statsArgs})
	if err != nil {
		return err
	}
	if !statsRes.Ok() {
		return fmt.Errorf("stats exited %d", statsRes.ExitCode)
	}

	inspectArgs := append(append([]string{"inspect"}, targets...), "--format", inspectFormat)
	inspectRes, err := e.runner.Run(ctx, execx.Spec{Command: e.cfg.Docker.Binary, Args: inspectArgs})
	if err != nil {
		return err
	}
	if !inspectRes.Ok() {
		return fmt.Errorf("inspect exited %d", inspectRes.ExitCode)
	}

	statsRows, err := parseStatsOutput(statsRes.Stdout)
	if err != nil {
		return err
	}
	inspectRows, err := parseInspectOutput(inspectRes.Stdout)
	if err != nil {
		return err
	}

	e.printer.Plain("%-35s %-20s %-16s %-20s %-18s %-8s %-8s %-20s",
		"NAME", "STATUS", "RESTART", "HEALTH", "UPTIME", "CPU %", "MEM %", "PORTS")
	e.printer.Plain("")

	for _, s := range statsRows {
		i, ok := inspectRows[s.name]
		if !ok {
			return fmt.Errorf("no inspect data for container %s", s.name)
		}
		e.printer.Plain("%-35s %-20s %-16s %-20s %-18s %-8s %-8s %-20s",
			e.printer.Cyan(s.name),
			e.paintStatus(i.status),
			i.restartPolicy,
			e.paintHealth(i.health),
			uptimeSince(i.startedAt, time.Now()),
			s.cpu,
			s.mem,
			i.ports,
		)
	}
	return nil
}

func (e *Executor) paintStatus(status string) string {
	switch strings.ToLower(status) {
	case "running":
		return e.printer.Green(status)
	case "created":
		return e.printer.Cyan(status)
	case "paused", "restarting":
		return e.printer.Yellow(status)
	default:
		return e.printer.Red(status)
	}
}

func (e *Executor) paintHealth(health string) string {
	switch strings.ToLower(health) {
	case "healthy":
		return e.printer.Green(health)
	case "unhealthy":
		return e.printer.Red(health)
	case "starting":
		return e.printer.Cyan(health)
	default:
		return health
	}
}

// parseStatsOutput parses the table emitted by docker stats, skipping
// the header line.
func parseStatsOutput(out string) ([]statsRow, error) {
	var rows []statsRow
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for _, line := range lines[1:] {
		row, err := parseStatsLine(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseStatsLine(line string) (statsRow, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return statsRow{}, fmt.Errorf("malformed stats line: %q", line)
	}
	return statsRow{name: fields[0], cpu: fields[1], mem: fields[2]}, nil
}

func parseInspectOutput(out string) (map[string]inspectRow, error) {
	rows := make(map[string]inspectRow)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		row, err := parseInspectLine(line)
		if err != nil {
			return nil, err
		}
		rows[row.name] = row
	}
	return rows, nil
}

func parseInspectLine(line string) (inspectRow, error) {
	fields := strings.SplitN(line, ",", 6)
	if len(fields) != 6 {
		return inspectRow{}, fmt.Errorf("malformed inspect line: %q", line)
	}
	return inspectRow{
		name:          strings.TrimPrefix(strings.TrimSpace(fields[0]), "/"),
		status:        fields[1],
		restartPolicy: fields[2],
		health:        fields[3],
		startedAt:     fields[4],
		ports:         strings.TrimSpace(fields[5]),
	}, nil
}

// uptimeSince renders the time since a container's StartedAt timestamp
// as a compact duration, or N/A when the timestamp is unparseable.
func uptimeSince(startedAt string, now time.Time) string {
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return "N/A"
	}
	d := now.Sub(started)
	if d < 0 {
		return "N/A"
	}
	switch {
	case d >= 24*time.Hour:
		days := int(d.Hours()) / 24
		hours := int(d.Hours()) % 24
		return fmt.Sprintf("%dd%dh", days, hours)
	case d >= time.Hour:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
