package ruleanalyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/engine/parsers"
	"github.com/ternarybob/bookscraper/internal/engine/parsers/css"
	"github.com/ternarybob/bookscraper/internal/engine/parsers/jsonpath"
	"github.com/ternarybob/bookscraper/internal/engine/parsers/jsoup"
	regexpfrontend "github.com/ternarybob/bookscraper/internal/engine/parsers/regexp"
	"github.com/ternarybob/bookscraper/internal/engine/parsers/xpath"
	"github.com/ternarybob/bookscraper/internal/engine/preprocessor"
	"github.com/ternarybob/bookscraper/internal/engine/scriptanalyzer"
	"github.com/ternarybob/bookscraper/internal/engine/template"
	"github.com/ternarybob/bookscraper/internal/models"
)

// ScriptRunner evaluates a raw script fragment, the escape hatch for
// RequiresScript verdicts and ScriptExpr template parts.
type ScriptRunner interface {
	Run(fragment string, ctx models.ExecutionContext) (string, error)
}

// Analyzer is L6: it orchestrates L1 (preprocessing), L2 (static script
// analysis), L4 (template/native execution), and L5 (script fallback) per
// rule invocation (spec.md §4.7).
type Analyzer struct {
	frontends map[models.RuleType]parsers.Frontend
	scriptAn  *scriptanalyzer.Analyzer
	exec      *template.Executor
	runner    ScriptRunner
	logger    arbor.ILogger
}

func New(provider *nativeapi.Provider, scriptAn *scriptanalyzer.Analyzer, runner ScriptRunner, logger arbor.ILogger) *Analyzer {
	if scriptAn == nil {
		scriptAn = scriptanalyzer.New(nil)
	}
	a := &Analyzer{
		frontends: map[models.RuleType]parsers.Frontend{
			models.RuleCSS:          css.New(),
			models.RuleXPath:        xpath.New(),
			models.RuleJSONPath:     jsonpath.New(),
			models.RuleJsoupDefault: jsoup.New(),
			models.RuleRegex:        regexpfrontend.New(),
		},
		scriptAn: scriptAn,
		runner:   runner,
		logger:   logger,
	}
	a.exec = template.New(provider, a.evalScript)
	return a
}

func (a *Analyzer) evalScript(expr string, ctx models.ExecutionContext) (string, error) {
	if a.runner == nil {
		return "", nil
	}
	return a.runner.Run(expr, ctx)
}

func (a *Analyzer) warn(msg, detail string) {
	if a.logger != nil {
		a.logger.Warn().Str("detail", detail).Msg(msg)
	}
}

// GetString implements spec.md §4.7 get_string(content, rule).
func (a *Analyzer) GetString(raw string, ctx models.ExecutionContext) string {
	body := extractPut(raw, &ctx)
	body = substituteScope(body, ctx, captureGroups(ctx))

	if pieces, sep := preprocessor.SplitTopLevelAny(strings.TrimSpace(body), "||", "&&"); sep != "" {
		results := make([]string, 0, len(pieces))
		for _, piece := range preprocessor.TrimAll(pieces) {
			results = append(results, a.GetString(piece, ctx))
		}
		if sep == "||" {
			for _, r := range results {
				if r != "" {
					return r
				}
			}
			return ""
		}
		return strings.Join(results, "")
	}

	return a.runSteps(body, ctx)
}

func (a *Analyzer) runSteps(body string, ctx models.ExecutionContext) string {
	steps := splitSteps(body)
	result := ctx.Var("content")
	for _, step := range steps {
		result = a.runStep(step, ctx, result)
		ctx = ctx.WithVar("result", result).WithVar("content", result).WithVar("it", result)
	}
	return result
}

func (a *Analyzer) runStep(step string, ctx models.ExecutionContext, input string) string {
	pre := preprocessor.Preprocess(step)

	if pre.IsComposite {
		results := make([]string, 0, len(pre.Composite))
		for _, seg := range pre.Composite {
			results = append(results, a.runPreprocessed(seg, ctx, input))
		}
		if pre.Join == models.JoinFirstMatch {
			for _, r := range results {
				if r != "" {
					return r
				}
			}
			return ""
		}
		return strings.Join(results, "")
	}

	return a.runPreprocessed(pre, ctx, input)
}

func (a *Analyzer) runPreprocessed(pre models.PreprocessedRule, ctx models.ExecutionContext, input string) string {
	for k, v := range pre.PutVars {
		ctx = ctx.WithVar(k, v)
	}

	var out string
	if pre.Type == models.RuleScript {
		out = a.runScriptBody(pre.Body, ctx, input)
	} else {
		fe, ok := a.frontends[pre.Type]
		if !ok {
			a.warn("no frontend for rule type", pre.Type.String())
			return ""
		}
		out = fe.GetString(input, pre.Body)
	}

	if pre.HasRegexSuffix {
		out = applyRegexSuffix(out, pre.RegexPattern, pre.RegexReplacement, pre.RegexFirstOnly)
	}
	if pre.HasPostScript {
		postCtx := ctx.WithVar("result", out).WithVar("content", out)
		if res, err := a.evalScript(pre.PostScript, postCtx); err == nil {
			out = res
		}
	}
	return out
}

func (a *Analyzer) runScriptBody(body string, ctx models.ExecutionContext, input string) string {
	verdict := a.scriptAn.Analyze(body)
	scopedCtx := ctx.WithVar("result", input).WithVar("content", input)

	switch verdict.Kind {
	case models.VerdictNative:
		return a.exec.EvalPlan(verdict.Plan, scopedCtx, input)
	case models.VerdictNativeChain:
		return a.exec.EvalChain(verdict.Chain, scopedCtx, input)
	default:
		res, err := a.evalScript(verdict.Text, scopedCtx)
		if err != nil {
			a.warn("script execution failed", err.Error())
			return ""
		}
		return res
	}
}

func applyRegexSuffix(input, pattern, replacement string, firstOnly bool) string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return input
	}
	if firstOnly {
		replaced := false
		return re.ReplaceAllStringFunc(input, func(m string) string {
			if replaced {
				return m
			}
			replaced = true
			return re.ReplaceAllString(m, replacement)
		})
	}
	return re.ReplaceAllString(input, replacement)
}

// captureGroups reads the positional regex captures threaded through the
// scope as reserved variable names "$1".."$99" (set by a prior step's
// capturing selector evaluation).
func captureGroups(ctx models.ExecutionContext) []string {
	var captures []string
	for i := 1; i <= 99; i++ {
		v := ctx.Var("$" + strconv.Itoa(i))
		if v == "" {
			break
		}
		captures = append(captures, v)
	}
	return captures
}
