// Package css implements the CSS selector front-end of spec.md §4.2 over
// github.com/PuerkitoBio/goquery (which itself compiles selectors through
// github.com/andybalholm/cascadia).
package css

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/bookscraper/internal/engine/parsers"
)

// Frontend implements parsers.Frontend for plain CSS selector bodies.
type Frontend struct{}

func New() *Frontend { return &Frontend{} }

func (f *Frontend) GetString(content, rule string) string {
	selector, attr := parsers.SplitAttr(rule)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	if selector == "" {
		// Bare attribute fallback: extract from the first content element,
		// skipping the document wrapper (§4.2).
		return parsers.ExtractAttr(firstElement(doc), attr)
	}

	sel := doc.Find(selector)
	return parsers.ExtractAttr(sel, attr)
}

func (f *Frontend) GetList(content, rule string) []string {
	selector, attr := parsers.SplitAttr(rule)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []string{}
	}
	if selector == "" {
		return []string{parsers.ExtractAttr(firstElement(doc), attr)}
	}
	return parsers.ExtractAttrAll(doc.Find(selector), attr)
}

func (f *Frontend) GetElements(content, rule string) []string {
	selector, _ := parsers.SplitAttr(rule)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []string{}
	}
	sel := doc.Find(selector)
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		html, err := goquery.OuterHtml(s)
		if err == nil {
			out = append(out, html)
		}
	})
	return out
}

// firstElement returns the document body's first child element, skipping
// the html/body document wrapper goquery inserts.
func firstElement(doc *goquery.Document) *goquery.Selection {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return doc.Selection
	}
	children := body.Children()
	if children.Length() == 0 {
		return body
	}
	return children.First()
}
