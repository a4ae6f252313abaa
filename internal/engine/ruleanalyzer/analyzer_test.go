package ruleanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

func newTestAnalyzer() *Analyzer {
	return New(nativeapi.New(nil), nil, nil, nil)
}

func TestGetString_CSSSelector(t *testing.T) {
	a := newTestAnalyzer()
	ctx := models.ExecutionContext{Vars: map[string]string{"content": `<div class="title">Dragon King</div>`}}
	out := a.GetString("css:.title@text", ctx)
	assert.Equal(t, "Dragon King", out)
}

func TestGetString_FirstMatchCombinator(t *testing.T) {
	a := newTestAnalyzer()
	ctx := models.ExecutionContext{Vars: map[string]string{"content": `<div class="b">fallback</div>`}}
	out := a.GetString(`css:.a@text || css:.b@text`, ctx)
	assert.Equal(t, "fallback", out)
}

func TestGetString_ConcatenateCombinator(t *testing.T) {
	a := newTestAnalyzer()
	ctx := models.ExecutionContext{Vars: map[string]string{"content": `<div class="x">A</div><div class="y">B</div>`}}
	out := a.GetString(`css:.x@text && css:.y@text`, ctx)
	assert.Equal(t, "AB", out)
}

func TestGetList_CSSSelector(t *testing.T) {
	a := newTestAnalyzer()
	ctx := models.ExecutionContext{Vars: map[string]string{"content": `<ul><li>one</li><li>two</li></ul>`}}
	out := a.GetList("css:li@text", ctx)
	assert.Equal(t, []string{"one", "two"}, out)
}

func TestGetList_LeadingDashReverses(t *testing.T) {
	a := newTestAnalyzer()
	ctx := models.ExecutionContext{Vars: map[string]string{"content": `<ul><li>one</li><li>two</li></ul>`}}
	out := a.GetList("-css:li@text", ctx)
	assert.Equal(t, []string{"two", "one"}, out)
}

func TestEvaluateURL_PureTemplate(t *testing.T) {
	a := newTestAnalyzer()
	ctx := models.ExecutionContext{Key: "dragon", Vars: map[string]string{"page": "3"}}
	out, err := a.EvaluateURL("https://example.com/s?q={{key}}&p={{page}}", ctx)
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/s?q=dragon&p=3", out)
}
