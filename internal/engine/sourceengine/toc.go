package sourceengine

import (
	"context"

	"github.com/ternarybob/bookscraper/internal/models"
)

// TableOfContents implements spec.md §4.8 tableOfContents(tocUrl): repeated
// fetch + extract + nextTocUrl, capped at 50 pages and halting on an empty
// or identical next URL (S6).
func (e *Engine) TableOfContents(ctx context.Context, src *models.SourceSpec, tocURL string) ([]models.TocItem, error) {
	maxPages := e.MaxTocPages
	if maxPages <= 0 {
		maxPages = 50
	}

	var items []models.TocItem
	current := tocURL

	for page := 0; page < maxPages; page++ {
		body, err := e.fetch(ctx, current, src.Headers)
		if err != nil {
			return nil, err
		}

		fragCtx := baseContext(src).WithVar("content", body)
		fragments := e.Analyzer.GetElements(src.Toc["chapterList"], fragCtx)
		for _, frag := range fragments {
			itemCtx := fragCtx.WithVar("content", frag)
			item := models.TocItem{}
			if rule, ok := src.Toc["name"]; ok {
				item.Name = e.Analyzer.GetString(rule, itemCtx)
			}
			if rule, ok := src.Toc["url"]; ok {
				item.URL = resolveRelative(current, e.Analyzer.GetString(rule, itemCtx))
			}
			if rule, ok := src.Toc["isVolume"]; ok {
				item.IsVolume = truthyFlag(e.Analyzer.GetString(rule, itemCtx))
			}
			items = append(items, item)
		}

		nextRule, ok := src.Toc["nextTocUrl"]
		if !ok || nextRule == "" {
			break
		}
		next := resolveRelative(current, e.Analyzer.GetString(nextRule, fragCtx))
		if next == "" || next == current {
			break
		}
		current = next
	}

	return items, nil
}

func truthyFlag(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}
