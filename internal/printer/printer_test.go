package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlainOutputWhenColorDisabled(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	p.Success("Bootstrap success!")
	p.Error("No containers running")

	assert.Equal(t, "Bootstrap success!\nNo containers running\n", buf.String())
}

func TestColoredOutputForNonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	p.Warn("Killing docker containers...")

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Killing docker containers...")
}

func TestContainerLinePrefix(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)
	p.now = func() time.Time { return time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC) }

	p.ContainerLine("web", "listening on :8080")

	assert.Equal(t, "[2026-08-25 10:30:00 | web] listening on :8080\n", buf.String())
}

func TestPromptHasNoTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	p.Prompt("Are you sure? [y/N]: ")

	assert.Equal(t, "Are you sure? [y/N]: ", buf.String())
}
