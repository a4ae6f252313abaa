package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// cacheKeyPrefix namespaces cache entries away from the other
// collaborators sharing this database.
const cacheKeyPrefix = "cache:"

// CacheStorage implements interfaces.CacheStore (spec.md §6 "storage:
// cacheGet/Set"), using badger's native per-entry TTL for expiry.
type CacheStorage struct {
	db *DB
}

func NewCacheStorage(db *DB) *CacheStorage {
	return &CacheStorage{db: db}
}

func (s *CacheStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.Badger().View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cache key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *CacheStorage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(cacheKeyPrefix+key), []byte(value))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("set cache key %q: %w", key, err)
	}
	return nil
}
