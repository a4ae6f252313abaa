package preprocessor

import (
	"regexp"
	"strings"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

var (
	variableRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	javaCallRe = regexp.MustCompile(`(?s)^java\.(\w+)\s*\((.*)\)$`)
)

// ParseTemplate splits raw into the ordered Literal/Variable/NativeCall/
// ScriptExpr sequence of spec.md §3 "Parsed template", classifying every
// `{{...}}` occurrence per §4.1.
func ParseTemplate(raw string) models.ParsedTemplate {
	var out models.ParsedTemplate
	i := 0
	n := len(raw)

	for i < n {
		start := strings.Index(raw[i:], "{{")
		if start < 0 {
			out = append(out, literal(raw[i:]))
			break
		}
		start += i
		if start > i {
			out = append(out, literal(raw[i:start]))
		}

		end := matchingClose(raw, start+2)
		if end < 0 {
			// Unterminated; treat the rest as literal text.
			out = append(out, literal(raw[start:]))
			break
		}

		inner := raw[start+2 : end]
		out = append(out, classify(inner))
		i = end + 2
	}

	return out
}

func literal(s string) models.TemplatePart {
	return models.TemplatePart{Kind: models.PartLiteral, Literal: s}
}

// matchingClose finds the index of the "}}" that closes the "{{" whose body
// starts at from, accounting for nested "{{...}}" pairs (e.g. inside a
// script expression argument) and quoted strings.
func matchingClose(s string, from int) int {
	depth := 1
	var quote byte
	i := from
	for i < len(s)-1 {
		if quote != 0 {
			if s[i] == quote && s[i-1] != '\\' {
				quote = 0
			}
			i++
			continue
		}
		switch {
		case s[i] == '"' || s[i] == '\'':
			quote = s[i]
			i++
		case s[i] == '{' && s[i+1] == '{':
			depth++
			i += 2
		case s[i] == '}' && s[i+1] == '}':
			depth--
			if depth == 0 {
				return i
			}
			i += 2
		default:
			i++
		}
	}
	return -1
}

func classify(body string) models.TemplatePart {
	trimmed := strings.TrimSpace(body)

	if m := javaCallRe.FindStringSubmatch(trimmed); m != nil {
		method, argsStr := m[1], m[2]
		return models.TemplatePart{
			Kind:     models.PartNativeCall,
			API:      method,
			APIKnown: nativeapi.IsKnown(method),
			Args:     ParseArgs(argsStr),
		}
	}

	if variableRe.MatchString(trimmed) && !strings.HasPrefix(trimmed, "java.") {
		return models.TemplatePart{Kind: models.PartVariable, Name: trimmed}
	}

	return models.TemplatePart{Kind: models.PartScriptExpr, Literal: trimmed}
}

// ParseArgs splits a java.NAME(...) argument list on top-level commas and
// classifies each piece shallowly: a quoted string literal becomes a single
// Literal part, a bare identifier becomes Variable, anything else becomes an
// opaque ScriptExpr (spec.md §4.1: "Deeper parsing is the AST analyser's
// job.").
func ParseArgs(argsStr string) []models.ParsedTemplate {
	argsStr = strings.TrimSpace(argsStr)
	if argsStr == "" {
		return nil
	}

	pieces := splitTopLevel(argsStr, ",")
	out := make([]models.ParsedTemplate, 0, len(pieces))
	for _, p := range trimAll(pieces) {
		out = append(out, classifyArg(p))
	}
	return out
}

func classifyArg(arg string) models.ParsedTemplate {
	if len(arg) >= 2 && (arg[0] == '"' || arg[0] == '\'') && arg[len(arg)-1] == arg[0] {
		return models.ParsedTemplate{literal(arg[1 : len(arg)-1])}
	}
	if variableRe.MatchString(arg) {
		return models.ParsedTemplate{{Kind: models.PartVariable, Name: arg}}
	}
	// Nested java.NAME(...) or literal/variable mix: parse it as its own
	// template so a single level of NativeCall nesting round-trips.
	if strings.Contains(arg, "{{") {
		return ParseTemplate(arg)
	}
	if javaCallRe.MatchString(arg) {
		return models.ParsedTemplate{classify(arg)}
	}
	return models.ParsedTemplate{{Kind: models.PartScriptExpr, Literal: arg}}
}
