// Package jsonpath implements the JSON-path selector front-end of
// spec.md §4.2 over github.com/tidwall/gjson.
package jsonpath

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ternarybob/bookscraper/internal/engine/parsers"
)

// Frontend implements parsers.Frontend for JSON-path bodies ($.a.b, $[0]).
// There is no attribute directive in JSON-path rules; SplitAttr is applied
// for consistency and a trailing "@attr" suffix is split off and ignored.
type Frontend struct{}

func New() *Frontend { return &Frontend{} }

func (f *Frontend) GetString(content, rule string) string {
	path, _ := parsers.SplitAttr(rule)
	if path == "" {
		path = rule
	}
	path = toGjsonPath(path)
	res := gjson.Get(content, path)
	if !res.Exists() {
		return ""
	}
	return res.String()
}

func (f *Frontend) GetList(content, rule string) []string {
	path, _ := parsers.SplitAttr(rule)
	if path == "" {
		path = rule
	}
	path = toGjsonPath(path)
	res := gjson.Get(content, path)
	if !res.Exists() {
		return []string{}
	}
	if res.IsArray() {
		out := make([]string, 0)
		res.ForEach(func(_, v gjson.Result) bool {
			out = append(out, v.String())
			return true
		})
		return out
	}
	return []string{res.String()}
}

func (f *Frontend) GetElements(content, rule string) []string {
	path, _ := parsers.SplitAttr(rule)
	if path == "" {
		path = rule
	}
	path = toGjsonPath(path)
	res := gjson.Get(content, path)
	if !res.Exists() {
		return []string{}
	}
	if res.IsArray() {
		out := make([]string, 0)
		res.ForEach(func(_, v gjson.Result) bool {
			out = append(out, v.Raw)
			return true
		})
		return out
	}
	return []string{res.Raw}
}

// toGjsonPath strips a leading "$." or "$" (gjson paths are not $-rooted)
// and converts "$[N]" indexing to gjson's "N" segment form.
func toGjsonPath(path string) string {
	switch {
	case len(path) >= 2 && path[:2] == "$.":
		return path[2:]
	case len(path) >= 2 && path[:2] == "$[":
		if end := strings.IndexByte(path, ']'); end > 2 {
			return path[2:end] + path[end+1:]
		}
		return path[1:]
	case len(path) >= 1 && path[0] == '$':
		return path[1:]
	default:
		return path
	}
}
