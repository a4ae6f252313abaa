package transformer

import (
	"bytes"
	"encoding/gob"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
	"github.com/ternarybob/bookscraper/internal/models"
)

// CachedTransformer wraps a Transformer with the content-addressed,
// persistent compiled-source cache (spec.md §3 "Compiled-source cache"): a
// digest hit skips recompilation entirely.
type CachedTransformer struct {
	transformer *Transformer
	store       interfaces.CompiledSourceCacheStore
	logger      arbor.ILogger
}

func NewCached(transformer *Transformer, store interfaces.CompiledSourceCacheStore, logger arbor.ILogger) *CachedTransformer {
	return &CachedTransformer{transformer: transformer, store: store, logger: logger}
}

// TransformOrLoad returns the cached TransformedSource for src's digest if
// present, otherwise compiles it and writes the result back.
func (c *CachedTransformer) TransformOrLoad(src *models.SourceSpec) (*models.TransformedSource, error) {
	digest := Digest(src)

	if c.store != nil {
		if data, ok, err := c.store.Get(digest); err == nil && ok {
			var cached models.TransformedSource
			if decErr := gobDecode(data, &cached); decErr == nil {
				cached.Source = src
				return &cached, nil
			}
			c.warn("compiled-source cache entry corrupt, recompiling", digest)
		}
	}

	result := c.transformer.Transform(src)

	if c.store != nil {
		data, err := gobEncode(result)
		if err != nil {
			c.warn("failed to encode compiled source", err.Error())
			return result, nil
		}
		if err := c.store.Put(digest, data); err != nil {
			c.warn("failed to persist compiled source", err.Error())
		}
	}

	return result, nil
}

func (c *CachedTransformer) warn(msg, detail string) {
	if c.logger != nil {
		c.logger.Warn().Str("detail", detail).Msg(msg)
	}
}

func gobEncode(v *models.TransformedSource) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(data []byte, v *models.TransformedSource) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
