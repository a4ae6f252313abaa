package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// Manager owns the single badger database and exposes the four
// collaborators the engine and scheduler depend on.
type Manager struct {
	db             *DB
	kv             *KVStorage
	cache          *CacheStorage
	cookies        *CookieStorage
	compiledSource *CompiledSourceStorage
}

func NewManager(logger arbor.ILogger, cfg Config) (*Manager, error) {
	db, err := Open(logger, cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{
		db:             db,
		kv:             NewKVStorage(db),
		cache:          NewCacheStorage(db),
		cookies:        NewCookieStorage(db),
		compiledSource: NewCompiledSourceStorage(db),
	}, nil
}

func (m *Manager) KeyValueStore() interfaces.KeyValueStore { return m.kv }
func (m *Manager) CacheStore() interfaces.CacheStore       { return m.cache }
func (m *Manager) CookieStore() interfaces.CookieStore     { return m.cookies }
func (m *Manager) CompiledSourceCacheStore() interfaces.CompiledSourceCacheStore {
	return m.compiledSource
}

func (m *Manager) Close() error { return m.db.Close() }
