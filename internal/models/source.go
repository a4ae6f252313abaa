package models

import (
	"errors"
	"time"
)

// RuleGroup is a named set of string rules, e.g. the "search" or "toc" group
// of a SourceSpec. Keys are field names such as "bookList", "name", "author".
type RuleGroup map[string]string

// SourceSpec is the user-authored specification of one site: identifier URL,
// display name, optional default headers, an optional preload script, and the
// five rule groups. A source is immutable once loaded; any mutation must
// produce a new value (see Clone) and invalidate its compiled form.
type SourceSpec struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Name    string `json:"name"`
	Group   string `json:"group,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Preload string `json:"preload,omitempty"`

	Search  RuleGroup `json:"ruleSearch,omitempty"`
	Explore RuleGroup `json:"ruleExplore,omitempty"`
	Book    RuleGroup `json:"ruleBookInfo,omitempty"`
	Toc     RuleGroup `json:"ruleToc,omitempty"`
	Content RuleGroup `json:"ruleContent,omitempty"`

	// SchemaVersion records the schema version of the on-disk source
	// document. Nothing in this module reads it; sources are transformed as
	// loaded, whatever their version.
	SchemaVersion int `json:"schemaVersion,omitempty"`

	// CloudflareBypass is carried in the source's digest. The source
	// engine's fetches do not read it and are not routed through the
	// Cloudflare bypass side-channel.
	CloudflareBypass bool `json:"cloudflareBypass,omitempty"`

	// DeobfuscateFont, when true, runs the custom-font glyph-remap native
	// API on chapter content before it is returned.
	DeobfuscateFont bool `json:"deobfuscateFont,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep-enough copy for mutation; maps are copied so the
// original SourceSpec's rule groups are never aliased.
func (s *SourceSpec) Clone() *SourceSpec {
	clone := *s
	clone.Headers = cloneStringMap(s.Headers)
	clone.Search = RuleGroup(cloneStringMap(s.Search))
	clone.Explore = RuleGroup(cloneStringMap(s.Explore))
	clone.Book = RuleGroup(cloneStringMap(s.Book))
	clone.Toc = RuleGroup(cloneStringMap(s.Toc))
	clone.Content = RuleGroup(cloneStringMap(s.Content))
	return &clone
}

// Validate checks the minimal invariants a SourceSpec needs before it can
// be compiled or persisted: a non-empty identifying URL and display name.
func (s *SourceSpec) Validate() error {
	if s.URL == "" {
		return errors.New("source: url is required")
	}
	if s.Name == "" {
		return errors.New("source: name is required")
	}
	return nil
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Book is the normalized metadata returned by exploreBookInfo/bookInfo.
type Book struct {
	Name        string `json:"name"`
	Author      string `json:"author,omitempty"`
	Intro       string `json:"intro,omitempty"`
	Cover       string `json:"cover,omitempty"`
	BookURL     string `json:"bookUrl"`
	Kind        string `json:"kind,omitempty"`
	WordCount   string `json:"wordCount,omitempty"`
	LastChapter string `json:"lastChapter,omitempty"`
	UpdateTime  string `json:"updateTime,omitempty"`
}

// SearchResult is one item-level record produced by search(key, page).
type SearchResult = Book

// TocItem is one chapter entry produced by tableOfContents.
type TocItem struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	IsVolume bool   `json:"isVolume,omitempty"`
}

// Chapter is the normalized result of chapterContent: concatenated,
// filtered, replace-ruled page text plus the page count consumed.
type Chapter struct {
	Content string `json:"content"`
	Pages   int    `json:"pages"`
}
