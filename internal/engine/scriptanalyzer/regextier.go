package scriptanalyzer

import (
	"regexp"
	"strings"

	"github.com/ternarybob/bookscraper/internal/models"
)

// regexRule is one (compiled-pattern, converter) pair of the regex tier
// (spec.md §4.3: "~25 shapes"). A pattern matches an entire trimmed script
// body; its converter builds the NativeExecutionPlan from the capture
// groups.
type regexRule struct {
	pattern   *regexp.Regexp
	converter func(m []string) *models.NativeExecutionPlan
}

func lit(s string) models.Operand { return models.Operand{Kind: models.OperandLiteral, Literal: s} }

func variable(name string) models.Operand {
	return models.Operand{Kind: models.OperandVariable, Name: name}
}

func contentOperand() models.Operand {
	return models.Operand{Kind: models.OperandContext, Context: models.CtxContent}
}

func apiPlan(api string, args ...models.Operand) *models.NativeExecutionPlan {
	return &models.NativeExecutionPlan{
		Operations: []models.Operation{{Kind: models.OpApiCall, API: api, APIArgs: args}},
	}
}

func methodPlan(object models.Operand, method string, args ...models.Operand) *models.NativeExecutionPlan {
	return &models.NativeExecutionPlan{
		Operations: []models.Operation{{Kind: models.OpMethodCall, Object: object, Method: method, Args: args}},
	}
}

// argOperand classifies a raw regex-captured argument as a quoted string
// literal, "content"/"result" context reference, or a bare variable name.
func argOperand(raw string) models.Operand {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "content":
		return models.Operand{Kind: models.OperandContext, Context: models.CtxContent}
	case "result":
		return models.Operand{Kind: models.OperandContext, Context: models.CtxResult}
	}
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		return lit(raw[1 : len(raw)-1])
	}
	return variable(raw)
}

// argOperands splits a shallow comma-joined argument list and classifies
// each element with argOperand, skipping a trailing empty element (the
// no-argument case).
func argOperands(raw string) []models.Operand {
	parts := splitArgsShallow(raw)
	operands := make([]models.Operand, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		operands = append(operands, argOperand(p))
	}
	return operands
}

// methodRule builds a regexRule matching `var.<name>(args)` for a fixed
// method name, forwarding to nativeapi under apiName (defaulting to name
// when apiName is "").
func methodRule(name, apiName string) regexRule {
	if apiName == "" {
		apiName = name
	}
	pattern := regexp.MustCompile(`^(\w+)\.` + regexp.QuoteMeta(name) + `\((.*)\)$`)
	return regexRule{
		pattern: pattern,
		converter: func(m []string) *models.NativeExecutionPlan {
			return methodPlan(argOperand(m[1]), apiName, argOperands(m[2])...)
		},
	}
}

var regexRules = buildRegexRules()

// buildRegexRules enumerates the regex tier's pattern catalogue (spec.md
// §4.3, seed scenario S2). Each entry below recognizes one of the ≈25
// script-body shapes that can be classified without invoking the AST tier.
func buildRegexRules() []regexRule {
	nsCall := regexp.MustCompile(`^(java|JSON|source)\.(\w+)\((.*)\)$`)
	regexReplace := regexp.MustCompile(`^(\w+)\.(replace|replaceAll)\(\s*/(.*)/(\w*)\s*,\s*(.*)\)$`)

	rules := []regexRule{
		// ns.method(arg) host-namespace calls: covers every encoder/hash
		// (hexEncode/hexDecode/md5/md5_16/digestHex/utf8ToGbk/htmlFormat/
		// encodeUri...), every cipher (aesEncode/desEncode/tripleDes...),
		// HTTP (get/post/request/getAll), JSON (jsonPath/parse/stringify),
		// cookie (getCookie/setCookie), storage (cacheGet/cacheSet/
		// sourceVarGet/sourceVarSet), time, file and zip APIs in one shape.
		{
			pattern: nsCall,
			converter: func(m []string) *models.NativeExecutionPlan {
				return apiPlan(m[2], argOperands(m[3])...)
			},
		},
		// var.replace(/re/flags, "x") — regex-literal replace. The regex
		// source and flags are carried as literal operands; nativeapi's
		// replace executes the substitution.
		{
			pattern: regexReplace,
			converter: func(m []string) *models.NativeExecutionPlan {
				return methodPlan(argOperand(m[1]), "replace", lit(m[3]), argOperand(m[5]))
			},
		},
	}

	// var.method() / var.method(args) shapes: each string method spec.md
	// §4.2/§4.3 lists gets its own enumerated entry rather than one
	// catch-all, so the regex tier can classify the common cases without
	// falling through to the AST tier.
	stringMethods := []struct{ name, api string }{
		{"trim", ""},
		{"replace", ""}, // literal-arg replace; the regex-literal form above matches first
		{"split", ""},
		{"substring", ""},
		{"substr", "substring"},
		{"slice", "substring"},
		{"startsWith", ""},
		{"endsWith", ""},
		{"includes", ""},
		{"indexOf", ""},
		{"lastIndexOf", ""},
		{"padStart", ""},
		{"padEnd", ""},
		{"repeat", ""},
		{"charAt", ""},
		{"charCodeAt", ""},
		{"toUpperCase", "toUpper"},
		{"toLowerCase", "toLower"},
		{"match", ""},
		{"search", ""},
		{"concat", ""},
	}
	for _, sm := range stringMethods {
		rules = append(rules, methodRule(sm.name, sm.api))
	}

	// Fallback: any other `var.method(args)` shape (array methods, and
	// anything the enumerated list above misses) still classifies as a
	// single MethodCall; the AST tier is the correctness backstop for
	// everything neither this nor the enumerated rules resolve.
	rules = append(rules, regexRule{
		pattern: regexp.MustCompile(`^(\w+)\.(\w+)\((.*)\)$`),
		converter: func(m []string) *models.NativeExecutionPlan {
			return methodPlan(argOperand(m[1]), m[2], argOperands(m[3])...)
		},
	})

	return rules
}

// splitArgsShallow splits a call's argument text on top-level commas
// (string literals are not split internally).
func splitArgsShallow(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	depth := 0
	var quote byte
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote && s[i-1] != '\\' {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[last:]))
	return out
}

// regexTier attempts to classify a trimmed script body as Native via the
// fixed pattern catalogue. It returns ok=false when no pattern matches.
func regexTier(body string) (*models.NativeExecutionPlan, bool) {
	for _, rule := range regexRules {
		if m := rule.pattern.FindStringSubmatch(body); m != nil {
			return rule.converter(m), true
		}
	}
	return nil, false
}
