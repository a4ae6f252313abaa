// Package transformer implements L3 (spec.md §4.4): preprocessing,
// classification, and content-addressed caching of a SourceSpec into a
// TransformedSource.
package transformer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/ternarybob/bookscraper/internal/models"
)

// Digest computes the content-address of a SourceSpec: the hex SHA-256 of
// its canonical JSON form. Map keys are sorted by encoding/json already;
// the rule groups and headers are copied into a stable struct shape so
// field ordering never depends on map iteration order.
func Digest(src *models.SourceSpec) string {
	canon := canonicalSource{
		URL:              src.URL,
		Name:             src.Name,
		Group:            src.Group,
		Headers:          sortedPairs(src.Headers),
		Preload:          src.Preload,
		Search:           sortedPairs(src.Search),
		Explore:          sortedPairs(src.Explore),
		Book:             sortedPairs(src.Book),
		Toc:              sortedPairs(src.Toc),
		Content:          sortedPairs(src.Content),
		CloudflareBypass: src.CloudflareBypass,
		DeobfuscateFont:  src.DeobfuscateFont,
	}
	b, err := json.Marshal(canon)
	if err != nil {
		// canonicalSource is a plain value type; Marshal cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

type kv struct {
	K string `json:"k"`
	V string `json:"v"`
}

type canonicalSource struct {
	URL              string `json:"url"`
	Name             string `json:"name"`
	Group            string `json:"group"`
	Headers          []kv   `json:"headers"`
	Preload          string `json:"preload"`
	Search           []kv   `json:"search"`
	Explore          []kv   `json:"explore"`
	Book             []kv   `json:"book"`
	Toc              []kv   `json:"toc"`
	Content          []kv   `json:"content"`
	CloudflareBypass bool   `json:"cloudflareBypass"`
	DeobfuscateFont  bool   `json:"deobfuscateFont"`
}

func sortedPairs(m map[string]string) []kv {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]kv, 0, len(keys))
	for _, k := range keys {
		out = append(out, kv{K: k, V: m[k]})
	}
	return out
}
