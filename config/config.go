package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for depshift.
type Config struct {
	Workspace string                   `yaml:"workspace"` // Root of the managed workspace
	Updaters  map[string]UpdaterConfig `yaml:"updaters"`
	Expo      ExpoConfig               `yaml:"expo"`
}

// UpdaterConfig holds per-updater settings.
type UpdaterConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Directory relative to the workspace; empty = workspace root
}

// ExpoConfig configures the SDK recommendation sync.
type ExpoConfig struct {
	Manifest            string `yaml:"manifest"`    // package.json pinning the SDK, relative to the workspace
	Constraints         string `yaml:"constraints"` // Version-constraint document, relative to the workspace
	SDKVersion          string `yaml:"sdk_version"` // Empty = resolve latest from the registry
	PreserveCustomRules bool   `yaml:"preserve_custom_rules"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding ${ENV_VAR}
// references in the workspace path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Workspace = expandEnv(cfg.Workspace)
	applyDefaults(&cfg)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".depshift.yaml",
		".depshift.yml",
		"depshift.yaml",
		"depshift.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// expandEnv replaces ${VAR} references with their environment values,
// warning on unset variables.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}

	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Workspace == "" {
		cfg.Workspace = "."
	}
	if cfg.Expo.Constraints == "" {
		cfg.Expo.Constraints = ".syncpackrc.json"
	}
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if _, err := os.Stat(cfg.Workspace); err != nil {
		return fmt.Errorf("workspace %q is not accessible: %w", cfg.Workspace, err)
	}

	for name, u := range cfg.Updaters {
		if filepath.IsAbs(u.Path) {
			return fmt.Errorf("updaters.%s.path must be relative to the workspace", name)
		}
	}

	return nil
}
