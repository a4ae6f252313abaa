// Package parsers defines the shared contract the five selector front-ends
// (CSS, XPath, JSON-path, Jsoup dialect, regex) implement, plus the
// rule-to-attribute splitting rule common to the HTML-backed front-ends
// (spec.md §4.2).
package parsers

import "strings"

// Frontend is the three-operation contract spec.md §4.2 requires of every
// selector front-end.
type Frontend interface {
	GetString(content, rule string) string
	GetList(content, rule string) []string
	GetElements(content, rule string) []string
}

// knownAttrs is the set of attribute names §4.2 recognises after a trailing
// "@attr"/"@@attr" directive, plus the bare names href/src that are
// recognised without an "@".
var knownAttrs = map[string]bool{
	"text": true, "textNodes": true, "ownText": true,
	"html": true, "outerHtml": true, "innerHtml": true,
	"href": true, "src": true,
}

// SplitAttr splits a rule body on its *last* "@", collapsing runs of "@"
// first. It returns the selector and the attribute directive, or an empty
// attribute when none is present. A bare rule equal to "href" or "src" with
// no "@" is treated as selector="" attr=rule (the bare-attribute fallback).
func SplitAttr(rule string) (selector, attr string) {
	for strings.Contains(rule, "@@") {
		rule = strings.ReplaceAll(rule, "@@", "@")
	}

	if rule == "href" || rule == "src" {
		return "", rule
	}

	idx := strings.LastIndex(rule, "@")
	if idx < 0 {
		return rule, ""
	}

	candidate := rule[idx+1:]
	if knownAttrs[candidate] || isLikelyAttrName(candidate) {
		return rule[:idx], candidate
	}
	return rule, ""
}

// isLikelyAttrName accepts any HTML-attribute-shaped token (data-*,
// lowercase identifiers) as a custom attribute directive, per §4.2 "any
// HTML attribute name".
func isLikelyAttrName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
