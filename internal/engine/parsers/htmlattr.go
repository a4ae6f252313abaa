package parsers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractAttr reads the requested attribute directive (§4.2) from the first
// matched element of sel. Empty attr defaults to "text".
func ExtractAttr(sel *goquery.Selection, attr string) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	first := sel.First()

	switch attr {
	case "", "text":
		return strings.TrimSpace(first.Text())
	case "ownText":
		return strings.TrimSpace(ownText(first))
	case "textNodes":
		return first.Text()
	case "html", "innerHtml":
		html, _ := first.Html()
		return html
	case "outerHtml":
		html, err := goquery.OuterHtml(first)
		if err != nil {
			return ""
		}
		return html
	default:
		val, _ := first.Attr(attr)
		return val
	}
}

// ownText returns the text of direct text-node children only, excluding
// descendant elements' text (jsoup's Element#ownText semantics).
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			b.WriteString(s.Text())
		}
	})
	return strings.TrimSpace(b.String())
}

// ExtractAttrAll reads the attribute directive from every element in sel.
func ExtractAttrAll(sel *goquery.Selection, attr string) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, ExtractAttr(s, attr))
	})
	return out
}
