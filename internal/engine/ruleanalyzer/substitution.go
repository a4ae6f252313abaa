// Package ruleanalyzer implements L6 (spec.md §4.7): get_string, get_list,
// get_elements, and evaluate_url, orchestrating L1-L5 per rule invocation.
package ruleanalyzer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/bookscraper/internal/models"
)

var (
	putSuffixRe = regexp.MustCompile(`(?s)@put:(\{.*\})\s*$`)
	getRefRe    = regexp.MustCompile(`@get:([A-Za-z_][A-Za-z0-9_]*)`)
	varRefRe    = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_.]*)\}\}`)
	captureRe   = regexp.MustCompile(`\$([1-9][0-9]?)`)
)

// extractPut strips a trailing "@put:{json}" block and merges its entries
// into ctx's variable scope (spec.md §4.7 step 1).
func extractPut(body string, ctx *models.ExecutionContext) string {
	m := putSuffixRe.FindStringSubmatch(body)
	if m == nil {
		return body
	}
	var put map[string]string
	if json.Unmarshal([]byte(m[1]), &put) == nil {
		for k, v := range put {
			*ctx = ctx.WithVar(k, v)
		}
	}
	return strings.TrimSuffix(body, m[0])
}

// substituteScope replaces @get:name and {{name}} references from the
// variable scope, then $1..$99 positional captures (spec.md §4.7 step 2).
// {{name}} here is the *legacy scope reference* form, distinct from the
// engine's own template/native-call grammar parsed by preprocessor.
func substituteScope(body string, ctx models.ExecutionContext, captures []string) string {
	body = getRefRe.ReplaceAllStringFunc(body, func(m string) string {
		name := getRefRe.FindStringSubmatch(m)[1]
		return ctx.Var(name)
	})
	body = varRefRe.ReplaceAllStringFunc(body, func(m string) string {
		name := varRefRe.FindStringSubmatch(m)[1]
		if v := ctx.Var(name); v != "" {
			return v
		}
		return m
	})
	body = captureRe.ReplaceAllStringFunc(body, func(m string) string {
		idx, err := strconv.Atoi(captureRe.FindStringSubmatch(m)[1])
		if err != nil || idx < 1 || idx > len(captures) {
			return ""
		}
		return captures[idx-1]
	})
	return body
}
