// Package regexp implements the regex selector front-end of spec.md §4.2.
// A pure-replace body (pattern##replacement) is applied as a global
// replace; otherwise the body is a match pattern.
package regexp

import (
	goregexp "regexp"
	"strings"
)

// Frontend implements parsers.Frontend for regex rule bodies.
type Frontend struct{}

func New() *Frontend { return &Frontend{} }

// GetString returns the first match (capture group 1 if present, else the
// whole match), or applies a global pattern##replacement when the body
// contains the "##" separator.
func (f *Frontend) GetString(content, rule string) string {
	if pattern, repl, ok := splitReplace(rule); ok {
		re, err := goregexp.Compile(pattern)
		if err != nil {
			return ""
		}
		return re.ReplaceAllString(content, repl)
	}

	re, err := goregexp.Compile(rule)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}

// GetList returns every match; a capture group 1 is preferred per match when
// present.
func (f *Frontend) GetList(content, rule string) []string {
	if pattern, repl, ok := splitReplace(rule); ok {
		re, err := goregexp.Compile(pattern)
		if err != nil {
			return []string{}
		}
		return []string{re.ReplaceAllString(content, repl)}
	}

	re, err := goregexp.Compile(rule)
	if err != nil {
		return []string{}
	}
	matches := re.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])
		} else {
			out = append(out, m[0])
		}
	}
	return out
}

// GetElements returns the full match text of every match (regex has no
// element fragment concept distinct from its matched text).
func (f *Frontend) GetElements(content, rule string) []string {
	re, err := goregexp.Compile(rule)
	if err != nil {
		return []string{}
	}
	return re.FindAllString(content, -1)
}

func splitReplace(rule string) (pattern, replacement string, ok bool) {
	idx := strings.Index(rule, "##")
	if idx < 0 {
		return "", "", false
	}
	return rule[:idx], rule[idx+2:], true
}
