// Package registry loads bot identities from YAML definition files. The
// decomposer needs a bot's id and per-platform metadata for every inbound
// activity; this registry is the small on-disk catalog supplying them.
package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"botique/internal/domain"
)

// BotDefinition is one bot identity as declared in a YAML file.
type BotDefinition struct {
	ID          string                    `yaml:"id"`
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description,omitempty"`
	Platforms   map[string]map[string]any `yaml:"platforms,omitempty"` // platform label -> metadata
}

// PlatformData converts the definition into the bot envelope used by the
// adapter. Unknown platform labels are skipped.
func (d BotDefinition) PlatformData(logger *slog.Logger) domain.BotPlatformData {
	data := domain.BotPlatformData{ID: d.ID, Name: d.Name}
	if len(d.Platforms) == 0 {
		return data
	}
	data.PlatformData = make(map[domain.PlatformType]any, len(d.Platforms))
	for label, meta := range d.Platforms {
		platform, ok := domain.ParsePlatform(label)
		if !ok {
			logger.Warn("unknown platform label in bot definition", "bot", d.ID, "platform", label)
			continue
		}
		data.PlatformData[platform] = meta
	}
	return data
}

// Registry is an in-memory index of bot definitions keyed by id.
type Registry struct {
	bots   map[string]BotDefinition
	logger *slog.Logger
}

// Load reads bot definitions from YAML files in a directory. Files must have
// a .yaml or .yml extension; unreadable or malformed files are skipped with
// a warning.
func Load(dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg := &Registry{bots: make(map[string]BotDefinition), logger: logger}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug("bot registry directory does not exist, skipping", "dir", dir)
		return reg, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read registry dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("cannot read bot definition", "path", path, "err", err)
			continue
		}

		var def BotDefinition
		if err := yaml.Unmarshal(data, &def); err != nil {
			logger.Warn("cannot parse bot definition", "path", path, "err", err)
			continue
		}
		if def.ID == "" {
			logger.Warn("bot definition missing id, skipping", "path", path)
			continue
		}

		reg.bots[def.ID] = def
		logger.Debug("loaded bot definition", "bot", def.ID, "name", def.Name)
	}

	return reg, nil
}

// Get returns the bot definition for an id.
func (r *Registry) Get(id string) (BotDefinition, bool) {
	def, ok := r.bots[id]
	return def, ok
}

// Bot returns the platform envelope for an id, or an error when the bot is
// not registered.
func (r *Registry) Bot(id string) (domain.BotPlatformData, error) {
	def, ok := r.bots[id]
	if !ok {
		return domain.BotPlatformData{}, fmt.Errorf("bot %q not found in registry", id)
	}
	return def.PlatformData(r.logger), nil
}

// Len reports how many bots are registered.
func (r *Registry) Len() int {
	return len(r.bots)
}
