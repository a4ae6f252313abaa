// Package scriptanalyzer implements L2 (spec.md §4.3): the tiered static
// script analyser (regex tier, AST tier, FIFO result cache) that classifies
// a script fragment as Native, NativeChain, or RequiresScript.
package scriptanalyzer

import (
	"strings"
	"sync/atomic"

	"github.com/ternarybob/bookscraper/internal/models"
)

// Analyzer runs the regex/AST tiers behind a shared Cache and exposes the
// coverage counters spec.md §4.3 requires.
type Analyzer struct {
	cache *Cache

	regexHits      int64
	astHits        int64
	cacheHits      int64
	scriptFallback int64
}

func New(cache *Cache) *Analyzer {
	if cache == nil {
		cache = NewCache(DefaultCapacity)
	}
	return &Analyzer{cache: cache}
}

// Analyze classifies a script fragment (already stripped of @js:/<script>
// wrapping by the caller). Cache lookups happen first; on miss, the regex
// tier runs, then the AST tier on RequiresScript, and the verdict is cached.
func (a *Analyzer) Analyze(script string) models.AnalysisVerdict {
	body := strings.TrimSpace(script)
	hash := Hash(body)

	if v, ok := a.cache.Get(hash); ok {
		a.cache.recordHit()
		atomic.AddInt64(&a.cacheHits, 1)
		return v
	}
	a.cache.recordMiss()

	verdict := a.classify(body)
	a.cache.Put(hash, verdict)
	return verdict
}

func (a *Analyzer) classify(body string) models.AnalysisVerdict {
	if plan, ok := regexTier(body); ok {
		atomic.AddInt64(&a.regexHits, 1)
		return models.AnalysisVerdict{Kind: models.VerdictNative, Plan: plan}
	}

	if plan, ok := astTier(body); ok {
		atomic.AddInt64(&a.astHits, 1)
		return models.AnalysisVerdict{Kind: models.VerdictNative, Plan: plan}
	}

	atomic.AddInt64(&a.scriptFallback, 1)
	return models.AnalysisVerdict{Kind: models.VerdictRequiresScript, Text: body}
}

// Counters returns the coverage metrics (spec.md §4.3 "Coverage metric").
func (a *Analyzer) Counters() (regexHits, astHits, cacheHits, scriptFallbacks int64) {
	return atomic.LoadInt64(&a.regexHits), atomic.LoadInt64(&a.astHits),
		atomic.LoadInt64(&a.cacheHits), atomic.LoadInt64(&a.scriptFallback)
}

// Cache exposes the underlying cache for interfaces.AnalysisCacheStore
// wiring and tests.
func (a *Analyzer) Cache() *Cache { return a.cache }
