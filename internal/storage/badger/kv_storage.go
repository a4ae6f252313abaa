package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// kvKeyPrefix namespaces persistent source variables (spec.md §6
// "storage: sourceVarGet/Set") away from the other collaborators sharing
// this database.
const kvKeyPrefix = "kv:"

// KVStorage implements interfaces.KeyValueStore directly against
// *badger.DB.
type KVStorage struct {
	db *DB
}

func NewKVStorage(db *DB) *KVStorage {
	return &KVStorage{db: db}
}

func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.Badger().View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(kvKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get key %q: %w", key, err)
	}
	return value, nil
}

func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(kvKeyPrefix+key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set key %q: %w", key, err)
	}
	return nil
}

func (s *KVStorage) Delete(ctx context.Context, key string) error {
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(kvKeyPrefix + key))
		if err != nil {
			return err
		}
		return txn.Delete([]byte(kvKeyPrefix + key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return interfaces.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

func (s *KVStorage) List(ctx context.Context, prefix string) (map[string]string, error) {
	out := make(map[string]string)
	err := s.db.Badger().View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(kvKeyPrefix + prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), kvKeyPrefix)
			err := item.Value(func(val []byte) error {
				out[key] = string(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return out, nil
}
