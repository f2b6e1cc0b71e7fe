package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, InitConfig())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "docker", cfg.Docker.Binary)
	assert.Equal(t, "cli", cfg.Docker.Backend)
	assert.Equal(t, "/var/lib/docker-stack-deploy/compose.yml", cfg.Deploy.ComposePath)
	assert.Equal(t, "docker-stack-deploy", cfg.Deploy.Service)
	assert.Equal(t, "ghcr.io/wez/docker-stack-deploy", cfg.Deploy.Image)
	assert.Equal(t, "com.docker.compose.project", cfg.Stack.LabelKey)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.False(t, cfg.NoColor)
}

func TestEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("DSDCTL_DOCKER_BINARY", "podman")

	require.NoError(t, InitConfig())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "podman", cfg.Docker.Binary)
}
