package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const compiledSourceKeyPrefix = "compiled:"

// CompiledSourceStorage implements interfaces.CompiledSourceCacheStore,
// keyed by the SourceSpec content digest (spec.md §3 "Compiled-source
// cache").
type CompiledSourceStorage struct {
	db *DB
}

func NewCompiledSourceStorage(db *DB) *CompiledSourceStorage {
	return &CompiledSourceStorage{db: db}
}

func (s *CompiledSourceStorage) Get(digest string) ([]byte, bool, error) {
	var data []byte
	err := s.db.Badger().View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(compiledSourceKeyPrefix + digest))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get compiled source %q: %w", digest, err)
	}
	return data, true, nil
}

func (s *CompiledSourceStorage) Put(digest string, data []byte) error {
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(compiledSourceKeyPrefix+digest), data)
	})
	if err != nil {
		return fmt.Errorf("put compiled source %q: %w", digest, err)
	}
	return nil
}
