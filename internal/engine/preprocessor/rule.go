// Package preprocessor implements L1 (spec.md §4.1): rule-type detection,
// post-script/regex-suffix/@put stripping, and {{...}} template parsing.
package preprocessor

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ternarybob/bookscraper/internal/models"
)

var (
	postScriptRe = regexp.MustCompile(`(?s)<script>(.*?)</script>`)
	putSuffixRe  = regexp.MustCompile(`(?s)@put:(\{.*\})\s*$`)
	// Trailing ##pattern##replacement[##firstOnly] suffix. The pattern and
	// replacement halves may contain any character except an unescaped "##"
	// boundary; we match greedily from the *last* "##" group so nested "##"
	// inside the pattern stays with the pattern half where possible.
	regexSuffixRe = regexp.MustCompile(`^(.*[^#])##([^#](?:.*[^#])?)##([^#](?:.*[^#])?)?(##)?$`)
)

// Preprocess converts a raw rule string into a PreprocessedRule, per
// spec.md §4.1. Composite (||/&&) rules recurse into Composite segments.
func Preprocess(raw string) models.PreprocessedRule {
	trimmed := strings.TrimSpace(raw)

	if pieces, sep := splitTopLevelAny(trimmed, "||", "&&"); sep != "" {
		join := models.JoinFirstMatch
		if sep == "&&" {
			join = models.JoinConcatenate
		}
		segs := make([]models.PreprocessedRule, 0, len(pieces))
		for _, p := range trimAll(pieces) {
			segs = append(segs, Preprocess(p))
		}
		return models.PreprocessedRule{IsComposite: true, Composite: segs, Join: join}
	}

	return preprocessSingle(trimmed)
}

func preprocessSingle(body string) models.PreprocessedRule {
	rule := models.PreprocessedRule{PutVars: map[string]string{}}

	// 1. post-script, anywhere in the string.
	if m := postScriptRe.FindStringSubmatchIndex(body); m != nil {
		rule.HasPostScript = true
		rule.PostScript = body[m[2]:m[3]]
		body = body[:m[0]] + body[m[1]:]
	}

	// 2. @put:{json} suffix.
	if m := putSuffixRe.FindStringSubmatch(body); m != nil {
		var put map[string]string
		if json.Unmarshal([]byte(m[1]), &put) == nil {
			for k, v := range put {
				rule.PutVars[k] = v
			}
		}
		body = strings.TrimSuffix(body, m[0])
	}

	// 3. trailing ##pattern##replacement[##firstOnly] suffix, guarded
	// against offset 0 (a pure-regex rule starting with "##" is not a
	// suffix, it IS the rule).
	body = strings.TrimSpace(body)
	if idx := strings.Index(body, "##"); idx > 0 {
		if m := regexSuffixRe.FindStringSubmatch(body); m != nil {
			rule.HasRegexSuffix = true
			rule.RegexPattern = m[2]
			rule.RegexReplacement = m[3]
			rule.RegexFirstOnly = m[4] == "##"
			body = m[1]
		}
	}

	body = strings.TrimSpace(body)
	rule.Type, rule.Body = DetectType(body)
	return rule
}

// DetectType applies the rule-type detection table of spec.md §4.1 and
// returns the detected type plus the prefix-stripped body. Detection is
// applied to the trimmed string, case-insensitive on the prefix token only
// (invariant I1: stable regardless of input content).
func DetectType(body string) (models.RuleType, string) {
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, "@css:"):
		return models.RuleCSS, trimmed[len("@css:"):]
	case strings.HasPrefix(lower, "css:"):
		return models.RuleCSS, trimmed[len("css:"):]
	case strings.HasPrefix(trimmed, "css#"), strings.HasPrefix(trimmed, "css."):
		return models.RuleCSS, trimmed[len("css"):]

	case strings.HasPrefix(lower, "@xpath:"):
		return models.RuleXPath, trimmed[len("@xpath:"):]
	case strings.HasPrefix(lower, "xpath:"):
		return models.RuleXPath, trimmed[len("xpath:"):]
	case strings.HasPrefix(trimmed, "//"):
		return models.RuleXPath, trimmed

	case strings.HasPrefix(lower, "@json:"):
		return models.RuleJSONPath, trimmed[len("@json:"):]
	case strings.HasPrefix(lower, "json:"):
		return models.RuleJSONPath, trimmed[len("json:"):]
	case strings.HasPrefix(trimmed, "$."), strings.HasPrefix(trimmed, "$["):
		return models.RuleJSONPath, trimmed

	case strings.HasPrefix(lower, "@js:"):
		return models.RuleScript, trimmed[len("@js:"):]
	case isFullScriptWrap(trimmed):
		return models.RuleScript, trimmed

	case strings.HasPrefix(trimmed, ":"):
		return models.RuleRegex, trimmed[1:]
	case strings.HasPrefix(trimmed, "##"):
		return models.RuleRegex, trimmed

	default:
		return models.RuleJsoupDefault, trimmed
	}
}

func isFullScriptWrap(s string) bool {
	return strings.HasPrefix(s, "<script>") && strings.HasSuffix(s, "</script>")
}
