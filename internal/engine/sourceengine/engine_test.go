package sourceengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/engine/ruleanalyzer"
	"github.com/ternarybob/bookscraper/internal/interfaces"
	"github.com/ternarybob/bookscraper/internal/models"
)

// fakeHTTP serves fixed bodies keyed by URL, recording every request seen.
type fakeHTTP struct {
	bodies map[string]string
	seen   []string
}

func (f *fakeHTTP) Do(ctx context.Context, req interfaces.HTTPRequest) (*interfaces.HTTPResponse, error) {
	f.seen = append(f.seen, req.URL)
	body, ok := f.bodies[req.URL]
	if !ok {
		return &interfaces.HTTPResponse{Body: "", Code: 404, URL: req.URL}, nil
	}
	return &interfaces.HTTPResponse{Body: body, Code: 200, URL: req.URL}, nil
}

func newTestEngine(http *fakeHTTP) *Engine {
	provider := nativeapi.New(nil)
	analyzer := ruleanalyzer.New(provider, nil, nil, nil)
	return New(analyzer, provider, http, nil)
}

func TestSearch_ExtractsBooksAndDropsEmptyNames(t *testing.T) {
	http := &fakeHTTP{bodies: map[string]string{
		"https://example.com/s?q=dragon&p=1": `
			<div class="book"><h3>Dragon King</h3><span class="a">Jin Yong</span></div>
			<div class="book"><span class="a">No Name</span></div>
		`,
	}}
	e := newTestEngine(http)
	src := &models.SourceSpec{
		URL: "https://example.com",
		Search: models.RuleGroup{
			"url":      "https://example.com/s?q={{key}}&p={{page}}",
			"bookList": "css:.book",
			"name":     "css:h3@text",
			"author":   "css:.a@text",
		},
	}

	books, err := e.Search(context.Background(), src, "dragon", 1)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dragon King", books[0].Name)
	assert.Equal(t, "Jin Yong", books[0].Author)
}

func TestBookInfo_ResolvesRelativeCoverURL(t *testing.T) {
	http := &fakeHTTP{bodies: map[string]string{
		"https://example.com/book/1": `<h1>Dragon King</h1><img class="cover" src="/covers/1.jpg">`,
	}}
	e := newTestEngine(http)
	src := &models.SourceSpec{
		URL: "https://example.com",
		Book: models.RuleGroup{
			"name":  "css:h1@text",
			"cover": "css:.cover@src",
		},
	}

	book, err := e.BookInfo(context.Background(), src, "https://example.com/book/1")
	require.NoError(t, err)
	assert.Equal(t, "Dragon King", book.Name)
	assert.Equal(t, "https://example.com/covers/1.jpg", book.Cover)
}

func TestTableOfContents_HaltsWhenNextTocUrlAbsent(t *testing.T) {
	http := &fakeHTTP{bodies: map[string]string{
		"https://example.com/toc/1": `<li><a href="/c/1">Chapter 1</a></li>`,
	}}
	e := newTestEngine(http)
	src := &models.SourceSpec{
		URL: "https://example.com",
		Toc: models.RuleGroup{
			"chapterList": "css:li",
			"name":        "css:a@text",
			"url":         "css:a@href",
		},
	}

	items, err := e.TableOfContents(context.Background(), src, "https://example.com/toc/1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chapter 1", items[0].Name)
	assert.Equal(t, "https://example.com/c/1", items[0].URL)
	assert.Len(t, http.seen, 1, "must halt after the first page when no nextTocUrl rule is configured")
}

func TestChapterContent_AppliesSmartFilters(t *testing.T) {
	http := &fakeHTTP{bodies: map[string]string{
		"https://example.com/c/1": `<div class="txt">Hello world. loading...</div>`,
	}}
	e := newTestEngine(http)
	src := &models.SourceSpec{
		URL: "https://example.com",
		Content: models.RuleGroup{
			"text": "css:.txt@text",
		},
	}

	ch, err := e.ChapterContent(context.Background(), src, "https://example.com/c/1")
	require.NoError(t, err)
	assert.Contains(t, ch.Content, "Hello world")
	assert.NotContains(t, ch.Content, "loading")
}

func TestCheck_TrueOnFirstMatchingKeyword(t *testing.T) {
	matchURL := "https://example.com/s?q=" + checkKeywords[0] + "&p=1"
	http := &fakeHTTP{bodies: map[string]string{
		matchURL: `<div class="book"><h3>Found It</h3></div>`,
	}}
	e := newTestEngine(http)
	src := &models.SourceSpec{
		URL: "https://example.com",
		Search: models.RuleGroup{
			"url":      "https://example.com/s?q={{key}}&p={{page}}",
			"bookList": "css:.book",
			"name":     "css:h3@text",
		},
	}

	ok, err := e.Check(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheck_FalseWhenNoKeywordMatches(t *testing.T) {
	bodies := map[string]string{}
	for _, keyword := range checkKeywords {
		bodies["https://example.com/s?q="+keyword+"&p=1"] = `<div class="empty">no results</div>`
	}
	http := &fakeHTTP{bodies: bodies}
	e := newTestEngine(http)
	src := &models.SourceSpec{
		URL: "https://example.com",
		Search: models.RuleGroup{
			"url":      "https://example.com/s?q={{key}}&p={{page}}",
			"bookList": "css:.book",
			"name":     "css:h3@text",
		},
	}

	ok, err := e.Check(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, ok)
}
