package ruleanalyzer

import (
	"strings"

	"github.com/ternarybob/bookscraper/internal/engine/preprocessor"
	"github.com/ternarybob/bookscraper/internal/models"
)

// EvaluateURL implements spec.md §4.7 evaluate_url(template, vars):
// get_string-like control flow, but every non-script step runs through the
// L4 template executor instead of the selector front-ends.
func (a *Analyzer) EvaluateURL(raw string, ctx models.ExecutionContext) (string, error) {
	body := extractPut(strings.TrimSpace(raw), &ctx)
	body = substituteScope(body, ctx, captureGroups(ctx))

	if pieces, sep := preprocessor.SplitTopLevelAny(body, "||", "&&"); sep != "" {
		results := make([]string, 0, len(pieces))
		for _, piece := range preprocessor.TrimAll(pieces) {
			r, err := a.EvaluateURL(piece, ctx)
			if err != nil {
				return "", err
			}
			results = append(results, r)
		}
		if sep == "||" {
			for _, r := range results {
				if r != "" {
					return r, nil
				}
			}
			return "", nil
		}
		return strings.Join(results, ""), nil
	}

	result := ctx.Var("content")
	for _, step := range splitSteps(body) {
		pre := preprocessor.Preprocess(step)
		for k, v := range pre.PutVars {
			ctx = ctx.WithVar(k, v)
		}

		var out string
		var err error
		if pre.Type == models.RuleScript {
			out = a.runScriptBody(pre.Body, ctx, result)
		} else {
			out, err = a.exec.EvalTemplate(preprocessor.ParseTemplate(pre.Body), ctx.WithVar("result", result).WithVar("content", result))
			if err != nil {
				return "", err
			}
		}

		if pre.HasRegexSuffix {
			out = applyRegexSuffix(out, pre.RegexPattern, pre.RegexReplacement, pre.RegexFirstOnly)
		}
		if pre.HasPostScript {
			postCtx := ctx.WithVar("result", out).WithVar("content", out)
			if res, perr := a.evalScript(pre.PostScript, postCtx); perr == nil {
				out = res
			}
		}

		result = out
		ctx = ctx.WithVar("result", result).WithVar("content", result)
	}
	return result, nil
}
