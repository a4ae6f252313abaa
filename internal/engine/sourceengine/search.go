package sourceengine

import (
	"context"
	"strconv"

	"github.com/ternarybob/bookscraper/internal/models"
)

// Search implements spec.md §4.8 search(key, page).
func (e *Engine) Search(ctx context.Context, src *models.SourceSpec, key string, page int) ([]models.Book, error) {
	urlCtx := baseContext(src)
	urlCtx.Key = key
	urlCtx.Page = page
	urlCtx = urlCtx.WithVar("searchKey", key).WithVar("page", strconv.Itoa(page))

	searchURL, err := e.Analyzer.EvaluateURL(src.Search[urlField], urlCtx)
	if err != nil {
		return nil, err
	}

	body, err := e.fetch(ctx, searchURL, src.Headers)
	if err != nil {
		return nil, err
	}

	fragCtx := baseContext(src)
	fragCtx.Key = key
	fragCtx.Page = page
	fragCtx = fragCtx.WithVar("content", body)

	fragments := e.Analyzer.GetElements(src.Search["bookList"], fragCtx)
	if len(fragments) == 0 {
		return nil, nil
	}

	items := make([]models.Book, 0, len(fragments))
	for _, frag := range fragments {
		item := e.evalBookFields(src.Search, frag, fragCtx)
		if item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

const urlField = "url"

var bookFieldRules = []string{"name", "author", "intro", "cover", "bookUrl", "kind", "wordCount", "lastChapter", "updateTime"}

func (e *Engine) evalBookFields(group models.RuleGroup, content string, ctx models.ExecutionContext) models.Book {
	fieldCtx := ctx.WithVar("content", content)
	var book models.Book
	for _, field := range bookFieldRules {
		rule, ok := group[field]
		if !ok {
			continue
		}
		val := e.Analyzer.GetString(rule, fieldCtx)
		switch field {
		case "name":
			book.Name = val
		case "author":
			book.Author = val
		case "intro":
			book.Intro = val
		case "cover":
			book.Cover = resolveRelative(ctx.BaseURL, val)
		case "bookUrl":
			book.BookURL = resolveRelative(ctx.BaseURL, val)
		case "kind":
			book.Kind = val
		case "wordCount":
			book.WordCount = val
		case "lastChapter":
			book.LastChapter = val
		case "updateTime":
			book.UpdateTime = val
		}
	}
	return book
}
