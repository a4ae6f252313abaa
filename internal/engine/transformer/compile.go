package transformer

import (
	"strings"

	"github.com/ternarybob/bookscraper/internal/engine/preprocessor"
	"github.com/ternarybob/bookscraper/internal/engine/scriptanalyzer"
	"github.com/ternarybob/bookscraper/internal/models"
)

// Compiler turns preprocessed rules into CompiledRules, running script
// fragments through the static analyser (L2) before falling back to
// CompiledScript (spec.md §4.4 "classify").
type Compiler struct {
	Analyzer *scriptanalyzer.Analyzer
}

func NewCompiler(analyzer *scriptanalyzer.Analyzer) *Compiler {
	if analyzer == nil {
		analyzer = scriptanalyzer.New(nil)
	}
	return &Compiler{Analyzer: analyzer}
}

// CompileRule preprocesses and classifies one raw rule string.
func (c *Compiler) CompileRule(raw string) models.CompiledRule {
	pre := preprocessor.Preprocess(raw)
	return c.compilePreprocessed(pre)
}

// CompileGroup compiles every rule in a RuleGroup, tracking the aggregate
// complexity score for the group's contribution to TransformedSource.
func (c *Compiler) CompileGroup(group models.RuleGroup, score *int) map[string]models.CompiledRule {
	out := make(map[string]models.CompiledRule, len(group))
	for field, raw := range group {
		rule := c.CompileRule(raw)
		*score += complexity(rule)
		out[field] = rule
	}
	return out
}

func (c *Compiler) compilePreprocessed(pre models.PreprocessedRule) models.CompiledRule {
	if pre.IsComposite {
		rules := make([]models.CompiledRule, 0, len(pre.Composite))
		for _, seg := range pre.Composite {
			rules = append(rules, c.compilePreprocessed(seg))
		}
		return models.CompiledRule{Kind: models.CompiledComposite, Rules: rules, Join: pre.Join}
	}

	carried := carryThrough(pre)

	if strings.TrimSpace(pre.Body) == "" && !pre.HasPostScript {
		carried.Kind = models.CompiledEmpty
		return carried
	}

	if pre.Type == models.RuleScript {
		verdict := c.Analyzer.Analyze(pre.Body)
		switch verdict.Kind {
		case models.VerdictNative:
			carried.Kind = models.CompiledNative
			carried.Plan = verdict.Plan
			return carried
		case models.VerdictNativeChain:
			carried.Kind = models.CompiledNativeChain
			carried.Chain = verdict.Chain
			return carried
		default:
			carried.Kind = models.CompiledScript
			carried.Script = verdict.Text
			return carried
		}
	}

	carried.Kind = models.CompiledSelector
	carried.SelectorType = pre.Type
	carried.SelectorBody = pre.Body
	return carried
}

func carryThrough(pre models.PreprocessedRule) models.CompiledRule {
	return models.CompiledRule{
		RegexPattern:     pre.RegexPattern,
		RegexReplacement: pre.RegexReplacement,
		RegexFirstOnly:   pre.RegexFirstOnly,
		HasRegexSuffix:   pre.HasRegexSuffix,
		PostScript:       pre.PostScript,
		HasPostScript:    pre.HasPostScript,
		PutVars:          pre.PutVars,
	}
}

// complexity scores one compiled rule per spec.md §4.4: "+40
// script-dependent, +1/+2/+10 per Native/NativeChain/Script slot".
func complexity(rule models.CompiledRule) int {
	switch rule.Kind {
	case models.CompiledNative:
		return 1
	case models.CompiledNativeChain:
		return 2
	case models.CompiledScript:
		return 40 + 10
	case models.CompiledComposite:
		total := 0
		for _, r := range rule.Rules {
			total += complexity(r)
		}
		return total
	default:
		return 0
	}
}
