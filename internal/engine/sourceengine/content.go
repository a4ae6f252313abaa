package sourceengine

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

// smartFilters strips the fixed list of common chapter-content pollutants
// (spec.md §4.8: "next-page prompts, page N/M markers, loading...") before
// any source-specific replace_regex rules run.
var smartFilters = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnext\s*page\b`),
	regexp.MustCompile(`(?i)\bprev(?:ious)?\s*page\b`),
	regexp.MustCompile(`(?i)\bpage\s+\d+\s*/\s*\d+\b`),
	regexp.MustCompile(`(?i)loading\s*\.{2,}`),
	regexp.MustCompile(`(?i)please\s+wait\s*\.{2,}`),
}

// ChapterContent implements spec.md §4.8 chapterContent(url): the same
// pagination loop as TableOfContents (cap 20), concatenated with a blank
// line, then smart filters and contentRules.replace_regex.
func (e *Engine) ChapterContent(ctx context.Context, src *models.SourceSpec, chapterURL string) (*models.Chapter, error) {
	maxPages := e.MaxContentPages
	if maxPages <= 0 {
		maxPages = 20
	}

	var pages []string
	current := chapterURL
	pagesConsumed := 0

	for page := 0; page < maxPages; page++ {
		body, err := e.fetch(ctx, current, src.Headers)
		if err != nil {
			return nil, err
		}

		pageCtx := baseContext(src).WithVar("content", body)
		text := e.Analyzer.GetString(src.Content["text"], pageCtx)
		pages = append(pages, text)
		pagesConsumed++

		nextRule, ok := src.Content["nextContentUrl"]
		if !ok || nextRule == "" {
			break
		}
		next := resolveRelative(current, e.Analyzer.GetString(nextRule, pageCtx))
		if next == "" || next == current {
			break
		}
		current = next
	}

	content := strings.Join(pages, "\n\n")
	content = applySmartFilters(content)
	content = e.applyReplaceRegex(src, content)

	if src.DeobfuscateFont {
		content = e.deobfuscate(src, content)
	}

	return &models.Chapter{Content: content, Pages: pagesConsumed}, nil
}

func applySmartFilters(content string) string {
	for _, re := range smartFilters {
		content = re.ReplaceAllString(content, "")
	}
	return content
}

// applyReplaceRegex runs contentRules.replace_regex: a JSON array of
// [pattern, replacement] pairs, applied in order.
func (e *Engine) applyReplaceRegex(src *models.SourceSpec, content string) string {
	rule, ok := src.Content["replace_regex"]
	if !ok || rule == "" {
		return content
	}

	raw := e.Analyzer.GetString(rule, baseContext(src))
	var pairs [][2]string
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		e.warn("invalid replace_regex rule output", err.Error())
		return content
	}

	for _, pair := range pairs {
		re, err := regexp.Compile(pair[0])
		if err != nil {
			e.warn("invalid replace_regex pattern", pair[0])
			continue
		}
		content = re.ReplaceAllString(content, pair[1])
	}
	return content
}

// deobfuscate runs the optional custom-font glyph remap (SPEC_FULL.md §12)
// when the source carries font/glyphMap rules alongside DeobfuscateFont.
// Called directly through the provider rather than a synthesised rule
// string, since the chapter content can contain characters that would need
// careful re-escaping to round-trip through the rule-text grammar.
func (e *Engine) deobfuscate(src *models.SourceSpec, content string) string {
	fontHex, ok := src.Content["font"]
	if !ok || fontHex == "" || e.Provider == nil {
		return content
	}
	glyphMap := src.Content["glyphMap"]
	return e.Provider.Execute("decodeObfuscatedFont", []string{fontHex, content, glyphMap}, nativeapi.Context{BaseURL: src.URL})
}
