package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// KeysDirConfig contains configuration for key/value file loading.
// This is separate from the sources directory: sources define WHAT to
// scrape, keys hold the secrets and overrides {key-name} substitution
// pulls into source specs and config files.
type KeysDirConfig struct {
	// Dir is the directory containing key/value files in TOML format.
	// Each TOML file has [section-name] entries with 'value' and optional
	// 'description' fields. Default: ./keys
	Dir string `toml:"dir"`
}

// keyValueFile is one [section-name] entry in a keys TOML file.
type keyValueFile struct {
	Value       string `toml:"value"`
	Description string `toml:"description"`
}

// LoadKeysFromDir loads every *.toml file in dir into kv, one KV entry per
// TOML section. Later files override earlier ones on key collision. A
// missing directory is not an error - the keys directory is optional.
func LoadKeysFromDir(ctx context.Context, kv interfaces.KeyValueStore, dir string, logger arbor.ILogger) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug().Str("dir", dir).Msg("keys directory not found, skipping")
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read keys directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to read key file")
			continue
		}

		var sections map[string]keyValueFile
		if err := toml.Unmarshal(data, &sections); err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to parse key file")
			continue
		}

		for key, section := range sections {
			if section.Value == "" {
				logger.Warn().Str("key", key).Str("file", entry.Name()).Msg("key file entry has no value, skipping")
				continue
			}
			if err := kv.Set(ctx, key, section.Value); err != nil {
				logger.Error().Err(err).Str("key", key).Msg("failed to store key")
				continue
			}
			loaded++
		}
	}

	logger.Info().Int("loaded", loaded).Str("dir", dir).Msg("loaded keys from files")
	return nil
}
