package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DockerConfig holds container-runtime configuration.
type DockerConfig struct {
	Binary  string `mapstructure:"binary"`
	Backend string `mapstructure:"backend"`
}

// DeployConfig holds docker-stack-deploy configuration.
type DeployConfig struct {
	ComposePath string `mapstructure:"compose_path"`
	Service     string `mapstructure:"service"`
	Image       string `mapstructure:"image"`
}

// StackConfig identifies which containers belong to a stack.
type StackConfig struct {
	LabelKey string `mapstructure:"label_key"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"log_level"`
}

// Config is the top-level configuration struct.
type Config struct {
	Docker  DockerConfig  `mapstructure:"docker"`
	Deploy  DeployConfig  `mapstructure:"deploy"`
	Stack   StackConfig   `mapstructure:"stack"`
	Logging LoggingConfig `mapstructure:"log"`
	NoColor bool          `mapstructure:"no_color"`
}

// InitConfig performs the initial configuration: setting defaults, specifying the config file, and reading it.
func InitConfig() error {
	// Set defaults for each sub-configuration.
	viper.SetDefault("docker.binary", "docker")
	viper.SetDefault("docker.backend", "cli")
	viper.SetDefault("deploy.compose_path", "/var/lib/docker-stack-deploy/compose.yml")
	viper.SetDefault("deploy.service", "docker-stack-deploy")
	viper.SetDefault("deploy.image", "ghcr.io/wez/docker-stack-deploy")
	viper.SetDefault("stack.label_key", "com.docker.compose.project")
	viper.SetDefault("log.log_level", "INFO")
	viper.SetDefault("no_color", false)

	// Specify the config file details.
	viper.SetConfigName("config") // Looks for config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // current directory

	// Read the config file if available.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// If the file is not found, just continue with defaults and env vars.
	}

	// Enable automatic environment variable binding.
	viper.SetEnvPrefix("dsdctl")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return nil
}

// Load unmarshals the configuration into the Config struct.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &config, nil
}
