package transformer

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/bookscraper/internal/engine/preprocessor"
	"github.com/ternarybob/bookscraper/internal/models"
)

// CompileURL parses a raw URL template, "URL" or "URL,{opts-json}", into a
// CompiledURL (spec.md §4.4 "URL templates parsed into (url, UrlOptions)").
func CompileURL(raw string) *models.CompiledURL {
	raw = strings.TrimSpace(raw)
	urlPart, optsPart := splitURLOptions(raw)

	tmpl := preprocessor.ParseTemplate(urlPart)
	opts := parseURLOptions(optsPart)

	return &models.CompiledURL{
		Template:       tmpl,
		Options:        opts,
		RequiresScript: requiresScript(tmpl),
	}
}

// splitURLOptions finds the top-level comma separating the URL half from a
// trailing {opts-json} object, if any.
func splitURLOptions(raw string) (urlPart, optsPart string) {
	depth := 0
	var quote byte
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if quote != 0 {
			if c == quote && (i == 0 || raw[i-1] != '\\') {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+1:])
			}
		}
	}
	return raw, ""
}

func parseURLOptions(raw string) models.UrlOptions {
	var opts models.UrlOptions
	if raw == "" {
		return opts
	}
	_ = json.Unmarshal([]byte(raw), &opts)
	return opts
}

func requiresScript(tmpl models.ParsedTemplate) bool {
	for _, part := range tmpl {
		switch part.Kind {
		case models.PartScriptExpr:
			return true
		case models.PartNativeCall:
			if !part.APIKnown {
				return true
			}
			for _, argTmpl := range part.Args {
				if requiresScript(argTmpl) {
					return true
				}
			}
		}
	}
	return false
}
