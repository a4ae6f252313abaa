// Package jsoup implements the Jsoup-style selector dialect of spec.md
// §4.2: id./class. prefixes, numeric/class segment disambiguation, the
// text.SUBSTRING filter, and "@" as a descendant combinator between
// segments. Built on github.com/PuerkitoBio/goquery with direct use of
// github.com/andybalholm/cascadia for selectors goquery.Find would
// otherwise panic on (e.g. a numeric class token compiled as literal CSS).
package jsoup

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/ternarybob/bookscraper/internal/engine/parsers"
)

// Frontend implements parsers.Frontend for the jsoup dialect. It is also
// used as the default (jsoupDefault) front-end for rules carrying no
// explicit type prefix.
type Frontend struct{}

func New() *Frontend { return &Frontend{} }

func (f *Frontend) GetString(content, rule string) string {
	selector, attr := parsers.SplitAttr(rule)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	if selector == "" {
		return parsers.ExtractAttr(firstElement(doc), attr)
	}
	sel := resolve(doc, selector)
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
	return parsers.ExtractAttrAll(resolve(doc, selector), attr)
}

func (f *Frontend) GetElements(content, rule string) []string {
	selector, _ := parsers.SplitAttr(rule)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []string{}
	}
	sel := resolve(doc, selector)
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if html, err := goquery.OuterHtml(s); err == nil {
			out = append(out, html)
		}
	})
	return out
}

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

// resolve evaluates a jsoup-dialect selector body against doc, segment by
// segment, with "@" between segments acting as a descendant combinator
// (§4.2).
func resolve(doc *goquery.Document, body string) *goquery.Selection {
	segments := strings.Split(body, "@")
	ctx := doc.Selection

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		ctx = resolveSegment(doc, ctx, seg)
		if ctx.Length() == 0 {
			return ctx
		}
	}
	return ctx
}

func resolveSegment(doc *goquery.Document, ctx *goquery.Selection, seg string) *goquery.Selection {
	switch {
	case strings.HasPrefix(seg, "id."):
		return findWithin(doc, ctx, "#"+seg[len("id."):])

	case strings.HasPrefix(seg, "class."):
		return findWithin(doc, ctx, "."+seg[len("class."):])

	case strings.HasPrefix(seg, "text."):
		substr := seg[len("text."):]
		return ctx.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(parsers.ExtractAttr(s, "ownText"), substr)
		})

	default:
		return resolveTagSegment(ctx, seg)
	}
}

// resolveTagSegment handles "tag.piece1.piece2..." segments. Each piece is
// resolved left to right; a numeric piece first tries as a class token, and
// if that matches nothing falls back to a position index into the
// selection accumulated so far (negative = from the end), per §4.2.
func resolveTagSegment(ctx *goquery.Selection, seg string) *goquery.Selection {
	parts := strings.Split(seg, ".")
	tag := parts[0]
	if tag == "" {
		tag = "*"
	}

	current := findWithin2(ctx, tag)

	for _, piece := range parts[1:] {
		if piece == "" {
			continue
		}
		hasClass := func(_ int, s *goquery.Selection) bool { return s.HasClass(piece) }
		if n, err := strconv.Atoi(piece); err == nil {
			// Numeric: class-token attempt first.
			byClass := current.FilterFunction(hasClass)
			if byClass.Length() > 0 {
				current = byClass
				continue
			}
			current = byIndex(current, n)
			continue
		}
		// Non-numeric: always a class token.
		current = current.FilterFunction(hasClass)
	}

	return current
}

func byIndex(sel *goquery.Selection, n int) *goquery.Selection {
	length := sel.Length()
	if length == 0 {
		return sel
	}
	idx := n
	if idx < 0 {
		idx = length + idx
	}
	if idx < 0 || idx >= length {
		return sel.Eq(length) // out of range: empty selection
	}
	return sel.Eq(idx)
}

// findWithin compiles selector safely via cascadia (goquery's Find panics on
// an invalid selector; cascadia.Compile returns an error instead) and
// applies it against ctx's descendants.
func findWithin(doc *goquery.Document, ctx *goquery.Selection, selector string) *goquery.Selection {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return ctx.Eq(ctx.Length()) // empty selection, same document
	}
	return ctx.FindMatcher(sel)
}

func findWithin2(ctx *goquery.Selection, selector string) *goquery.Selection {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return ctx.Eq(ctx.Length())
	}
	return ctx.FindMatcher(sel)
}
