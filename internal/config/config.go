package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// ConfigFileName is the optional YAML configuration file looked up in the
// working directory. The command itself takes no flags; everything has a
// fixed default so the file can be absent.
const ConfigFileName = "config.yaml"

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/epireport.log"`
}

// PathsConfig contains the fixed input and output locations
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output"`
}

// Load loads configuration from the optional config file and EPIREPORT_*
// environment variables. Environment takes precedence over the file, the
// file over built-in defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigFileName)
}

// LoadFrom is Load with an explicit config file path, for tests.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("EPIREPORT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// envconfig fills defaults for unset variables, so whether the env side
// actually set a field is decided by os.LookupEnv, not by comparing values:
// an env var explicitly set to the default still wins over the file.
func mergeConfigs(fileCfg, envCfg Config) Config {
	overlay := func(envKey string, target *string, fileValue string) {
		if _, set := os.LookupEnv(envKey); set {
			return
		}
		if fileValue != "" {
			*target = fileValue
		}
	}

	overlay("EPIREPORT_LOGGING_LEVEL", &envCfg.Logging.Level, fileCfg.Logging.Level)
	overlay("EPIREPORT_LOGGING_OUTPUT", &envCfg.Logging.Output, fileCfg.Logging.Output)
	overlay("EPIREPORT_LOGGING_FILE_PATH", &envCfg.Logging.FilePath, fileCfg.Logging.FilePath)
	overlay("EPIREPORT_PATHS_INPUT_DIR", &envCfg.Paths.InputDir, fileCfg.Paths.InputDir)
	overlay("EPIREPORT_PATHS_OUTPUT_DIR", &envCfg.Paths.OutputDir, fileCfg.Paths.OutputDir)

	return envCfg
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/epireport.log",
		},
		Paths: PathsConfig{
			InputDir:  "data",
			OutputDir: "output",
		},
	}
}

// validate checks configuration invariants
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q", c.Logging.Output)
	}

	if c.Paths.InputDir == "" {
		return fmt.Errorf("input_dir must not be empty")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}

	return nil
}
