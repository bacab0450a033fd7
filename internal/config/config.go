package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for Botique.
type Config struct {
	General  GeneralConfig  `json:"general"`
	Adapter  AdapterConfig  `json:"adapter"`
	Store    StoreConfig    `json:"store"`
	Registry RegistryConfig `json:"registry"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel"`
	LogFile  string `json:"logFile,omitempty"` // optional log file path
}

// AdapterConfig holds the DirectLine adapter policy knobs.
type AdapterConfig struct {
	// ButtonTemplateEncoding selects "hero" or "adaptive" rendering for
	// "button" templates. The two encodings are not compatible; all callers
	// of one deployment must agree on one.
	ButtonTemplateEncoding string `json:"buttonTemplateEncoding"`

	// EncodeURLParameters enables query escaping of structured button URL
	// parameters. Off by default to match the historical wire format.
	EncodeURLParameters bool `json:"encodeUrlParameters"`
}

// StoreConfig configures the SQLite conversation log.
type StoreConfig struct {
	Enabled       bool   `json:"enabled"`
	DBPath        string `json:"dbPath"`
	RetentionDays int    `json:"retentionDays"`
}

// RegistryConfig configures the YAML bot registry.
type RegistryConfig struct {
	Dir string `json:"dir"`
}

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Adapter: AdapterConfig{
			ButtonTemplateEncoding: "hero",
			EncodeURLParameters:    false,
		},
		Store: StoreConfig{
			Enabled:       true,
			DBPath:        "~/.botique/conversations.db",
			RetentionDays: 365,
		},
		Registry: RegistryConfig{
			Dir: "~/.botique/bots",
		},
	}
}

// DefaultConfigDir returns the default config directory (~/.botique).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".botique"
	}
	return filepath.Join(home, ".botique")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.Store.DBPath = ExpandPath(cfg.Store.DBPath)
	cfg.Registry.Dir = ExpandPath(cfg.Registry.Dir)
	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	switch cfg.Adapter.ButtonTemplateEncoding {
	case "hero", "adaptive":
		// valid
	default:
		errs = append(errs, "adapter.buttonTemplateEncoding must be one of: hero, adaptive")
	}
	if cfg.Store.Enabled && cfg.Store.DBPath == "" {
		errs = append(errs, "store.dbPath is required when store.enabled is true")
	}
	if cfg.Store.RetentionDays < 1 {
		errs = append(errs, "store.retentionDays must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
