package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/models"
)

func TestTransform_CompilesRuleGroupsAndURL(t *testing.T) {
	src := &models.SourceSpec{
		ID:  "demo",
		URL: "https://example.com",
		Search: models.RuleGroup{
			"url":      "https://example.com/search?q={{key}}&page={{page}}",
			"bookList": "css:.book-item",
			"name":     "css:.title@text",
		},
		Book: models.RuleGroup{
			"name": "@xpath://h1/text()",
		},
	}

	tr := New(nil)
	result := tr.Transform(src)

	require.NotNil(t, result.SearchURL)
	assert.True(t, result.SearchURL.Template.Pure())
	assert.False(t, result.SearchURL.RequiresScript)

	require.Contains(t, result.Search, "bookList")
	assert.Equal(t, models.CompiledSelector, result.Search["bookList"].Kind)
	assert.Equal(t, models.RuleCSS, result.Search["bookList"].SelectorType)

	require.Contains(t, result.Book, "name")
	assert.Equal(t, models.RuleXPath, result.Book["name"].SelectorType)

	assert.Equal(t, Digest(src), result.Digest)
}

func TestTransform_DigestStableAcrossMapOrdering(t *testing.T) {
	base := models.RuleGroup{"a": "1", "b": "2", "c": "3"}
	src1 := &models.SourceSpec{URL: "https://a.com", Search: base}
	src2 := &models.SourceSpec{URL: "https://a.com", Search: models.RuleGroup{"c": "3", "a": "1", "b": "2"}}

	assert.Equal(t, Digest(src1), Digest(src2))
}

func TestCompileRule_ScriptFallsBackWhenControlFlow(t *testing.T) {
	c := NewCompiler(nil)
	rule := c.CompileRule("@js: if (content.length > 10) { result = content; } else { result = ''; }")
	assert.Equal(t, models.CompiledScript, rule.Kind)
}

func TestCompileRule_RegexTierNativeCall(t *testing.T) {
	c := NewCompiler(nil)
	rule := c.CompileRule(`@js: java.md5(result)`)
	assert.Equal(t, models.CompiledNative, rule.Kind)
	require.NotNil(t, rule.Plan)
}
