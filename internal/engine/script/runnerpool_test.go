package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

func TestRunnerPool_PreloadPersistsAcrossCalls(t *testing.T) {
	pool := NewRunnerPool(nativeapi.New(nil), nil)
	src := &models.SourceSpec{
		ID:      "src-1",
		Preload: "const {java} = this;\nfunction helper(x) { return java.trim(x); }",
	}

	out, err := pool.Run(`helper("  padded  ")`, models.ExecutionContext{Source: src})
	require.NoError(t, err)
	assert.Equal(t, "padded", out)

	// Second call reuses the same instance; helper is still defined.
	out, err = pool.Run(`helper("  again  ")`, models.ExecutionContext{Source: src})
	require.NoError(t, err)
	assert.Equal(t, "again", out)
}

func TestRunnerPool_DistinctSourcesGetDistinctInstances(t *testing.T) {
	pool := NewRunnerPool(nativeapi.New(nil), nil)
	a := &models.SourceSpec{ID: "a", Preload: "var marker = 'a';"}
	b := &models.SourceSpec{ID: "b", Preload: "var marker = 'b';"}

	outA, err := pool.Run("marker", models.ExecutionContext{Source: a})
	require.NoError(t, err)
	outB, err := pool.Run("marker", models.ExecutionContext{Source: b})
	require.NoError(t, err)

	assert.Equal(t, "a", outA)
	assert.Equal(t, "b", outB)
}

func TestRunnerPool_NilSourceErrors(t *testing.T) {
	pool := NewRunnerPool(nativeapi.New(nil), nil)
	_, err := pool.Run("1", models.ExecutionContext{})
	assert.Error(t, err)
}
