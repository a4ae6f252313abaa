package scriptanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/models"
)

// S2: native encoding template classifies via the regex tier with zero
// script fallbacks (spec.md §8).
func TestAnalyze_RegexTierNativeCall(t *testing.T) {
	a := New(nil)
	v := a.Analyze("java.base64Encode(key)")
	require.Equal(t, models.VerdictNative, v.Kind)
	require.NotNil(t, v.Plan)
	require.Len(t, v.Plan.Operations, 1)
	assert.Equal(t, models.OpApiCall, v.Plan.Operations[0].Kind)
	assert.Equal(t, "base64Encode", v.Plan.Operations[0].API)

	regexHits, _, _, fallbacks := a.Counters()
	assert.Equal(t, int64(1), regexHits)
	assert.Equal(t, int64(0), fallbacks)
}

func TestAnalyze_CacheHit(t *testing.T) {
	a := New(nil)
	a.Analyze("java.base64Encode(key)")
	a.Analyze("java.base64Encode(key)")

	_, _, cacheHits, _ := a.Counters()
	assert.Equal(t, int64(1), cacheHits)
	assert.Equal(t, 1, a.Cache().Len())
}

func TestAnalyze_ControlFlowRequiresScript(t *testing.T) {
	a := New(nil)
	v := a.Analyze("if (page > 1) { result = 'x' }")
	assert.Equal(t, models.VerdictRequiresScript, v.Kind)
}

func TestCache_FIFOEviction(t *testing.T) {
	c := NewCache(256)
	for i := 0; i < 300; i++ {
		c.Put(uint64(i), models.AnalysisVerdict{Kind: models.VerdictRequiresScript})
	}
	assert.Equal(t, 256, c.Len())
	_, _, evictions := c.Stats()
	assert.Equal(t, int64(44), evictions)

	// The earliest-inserted keys should have been evicted first (FIFO).
	_, ok := c.Get(0)
	assert.False(t, ok)
	_, ok = c.Get(299)
	assert.True(t, ok)
}
