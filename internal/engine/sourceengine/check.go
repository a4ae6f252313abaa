package sourceengine

import (
	"context"

	"github.com/ternarybob/bookscraper/internal/models"
)

// checkKeywords is the fixed keyword list spec.md §4.8 check(source) tries
// against a source's search operation, in order, stopping at the first hit.
var checkKeywords = []string{"诛仙", "天", "龙", "莽荒纪"}

// Check implements spec.md §4.8 check(source): attempt search for each of a
// small fixed keyword list, return true on the first non-empty
// valid-named result. Transport failures for one keyword do not abort the
// remaining attempts; only an error from every keyword is surfaced.
func (e *Engine) Check(ctx context.Context, src *models.SourceSpec) (bool, error) {
	var lastErr error
	for _, keyword := range checkKeywords {
		results, err := e.Search(ctx, src, keyword, 1)
		if err != nil {
			lastErr = err
			continue
		}
		for _, book := range results {
			if book.Name != "" {
				return true, nil
			}
		}
	}
	if lastErr != nil {
		return false, lastErr
	}
	return false, nil
}
