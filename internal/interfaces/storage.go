package interfaces

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ternarybob/bookscraper/internal/models"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// ErrSourceNotFound is returned by SourceStore.Get/Delete when the ID is
// absent.
var ErrSourceNotFound = errors.New("source not found")

// SourceStore is the persistence collaborator for SourceSpec CRUD (spec.md
// §13 "internal/services/sources: source spec CRUD"). Implementations may
// back it with on-disk JSON/TOML files, a database, or both.
type SourceStore interface {
	Get(ctx context.Context, id string) (*models.SourceSpec, error)
	Save(ctx context.Context, source *models.SourceSpec) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.SourceSpec, error)
}

// KeyValueStore is the persistent key/value collaborator (spec.md §6
// "storage: sourceVarGet/Set"). It is a black box to the core; the engine
// only reads and writes through this interface.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) (map[string]string, error)
}

// CacheStore is the expiring cache collaborator (spec.md §6 "storage:
// cacheGet/Set"). Distinct from KeyValueStore: entries carry a TTL.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CookieStore is the cookie-jar collaborator (spec.md §6 "cookie:
// getCookie/setCookie"). The core never manages cookies itself.
type CookieStore interface {
	Get(rawURL string) []*http.Cookie
	Set(rawURL string, cookies []*http.Cookie) error
	Raw(rawURL, key string) string
}

// AnalysisCacheStore is the bounded, FIFO-evicted, hash-keyed store backing
// the static script analyser (spec.md §3 "Analysis cache"). Concurrent reads
// must be safe; writes are serialised by the implementation.
type AnalysisCacheStore interface {
	Get(hash uint64) (verdict any, ok bool)
	Put(hash uint64, verdict any)
	Len() int
	Stats() (hits, misses, evictions int64)
}

// CompiledSourceCacheStore is the content-addressed, persistent store
// backing L3 (spec.md §3 "Compiled-source cache"). Each Put must be atomic;
// the badger implementation writes each entry in a single transaction.
type CompiledSourceCacheStore interface {
	Get(digest string) (data []byte, ok bool, err error)
	Put(digest string, data []byte) error
}
