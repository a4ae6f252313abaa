// Package xpath implements the XPath selector front-end of spec.md §4.2 over
// github.com/antchfx/htmlquery and github.com/antchfx/xpath — enrichment
// from the retrieval pack, since the teacher repo has no XPath dependency.
package xpath

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/ternarybob/bookscraper/internal/engine/parsers"
)

// Frontend implements parsers.Frontend for XPath selector bodies.
type Frontend struct{}

func New() *Frontend { return &Frontend{} }

func (f *Frontend) GetString(content, rule string) string {
	selector, attr := parsers.SplitAttr(rule)
	doc, err := htmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}
	node := htmlquery.FindOne(doc, selector)
	return extract(node, attr)
}

func (f *Frontend) GetList(content, rule string) []string {
	selector, attr := parsers.SplitAttr(rule)
	doc, err := htmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return []string{}
	}
	nodes := htmlquery.Find(doc, selector)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, extract(n, attr))
	}
	return out
}

func (f *Frontend) GetElements(content, rule string) []string {
	selector, _ := parsers.SplitAttr(rule)
	doc, err := htmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return []string{}
	}
	nodes := htmlquery.Find(doc, selector)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, htmlquery.OutputHTML(n, true))
	}
	return out
}

func extract(n *html.Node, attr string) string {
	if n == nil {
		return ""
	}
	switch attr {
	case "", "text", "textNodes", "ownText":
		return strings.TrimSpace(htmlquery.InnerText(n))
	case "html", "innerHtml":
		return htmlquery.OutputHTML(n, false)
	case "outerHtml":
		return htmlquery.OutputHTML(n, true)
	default:
		return htmlquery.SelectAttr(n, attr)
	}
}
