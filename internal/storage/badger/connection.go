// Package badger implements the persistent collaborators the engine
// depends on (interfaces.KeyValueStore, CacheStore, CookieStore,
// CompiledSourceCacheStore) directly over github.com/dgraph-io/badger/v4.
package badger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
)

// Config controls where the database lives on disk and whether it should
// be wiped on startup (useful for test runs and local development).
type Config struct {
	Path           string
	ResetOnStartup bool
}

// DB owns the single *badger.DB the collaborators above share.
type DB struct {
	db     *badger.DB
	logger arbor.ILogger
}

// Open creates (or reopens) the database at cfg.Path.
func Open(logger arbor.ILogger, cfg Config) (*DB, error) {
	if cfg.ResetOnStartup {
		if _, err := os.Stat(cfg.Path); err == nil {
			logger.Debug().Str("path", cfg.Path).Msg("deleting existing database (reset_on_startup)")
			if err := os.RemoveAll(cfg.Path); err != nil {
				logger.Warn().Err(err).Str("path", cfg.Path).Msg("failed to delete database directory")
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	options := badger.DefaultOptions(cfg.Path)
	options.Logger = nil

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	logger.Debug().Str("path", cfg.Path).Msg("badger database initialized")
	return &DB{db: db, logger: logger}, nil
}

// Badger returns the underlying *badger.DB for collaborators in this
// package.
func (d *DB) Badger() *badger.DB { return d.db }

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
