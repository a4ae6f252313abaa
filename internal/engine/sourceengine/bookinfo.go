package sourceengine

import (
	"context"

	"github.com/ternarybob/bookscraper/internal/models"
)

var bookInfoFieldRules = []string{"name", "author", "intro", "cover", "bookUrl", "kind", "wordCount", "lastChapter", "updateTime"}

// BookInfo implements spec.md §4.8 bookInfo(url).
func (e *Engine) BookInfo(ctx context.Context, src *models.SourceSpec, bookURL string) (*models.Book, error) {
	body, err := e.fetch(ctx, bookURL, src.Headers)
	if err != nil {
		return nil, err
	}

	fieldCtx := baseContext(src)
	fieldCtx = fieldCtx.WithVar("content", body)

	if init, ok := src.Book["init"]; ok && init != "" {
		transformed := e.Analyzer.GetString(init, fieldCtx)
		fieldCtx = fieldCtx.WithVar("content", transformed)
	}

	book := &models.Book{BookURL: bookURL}
	for _, field := range bookInfoFieldRules {
		rule, ok := src.Book[field]
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
			book.Cover = resolveRelative(bookURL, val)
		case "bookUrl":
			if val != "" {
				book.BookURL = resolveRelative(bookURL, val)
			}
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
	return book, nil
}
