package ruleanalyzer

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/bookscraper/internal/engine/preprocessor"
	"github.com/ternarybob/bookscraper/internal/models"
)

// GetList implements spec.md §4.7 get_list(content, rule): the same control
// flow as GetString, except the final step must be list-returning. A
// leading "-" reverses the result; a top-level "%%" splits the body into
// fragments whose list outputs are concatenated.
func (a *Analyzer) GetList(raw string, ctx models.ExecutionContext) []string {
	trimmed := strings.TrimSpace(raw)
	reverse := strings.HasPrefix(trimmed, "-")
	if reverse {
		trimmed = trimmed[1:]
	}

	body := extractPut(trimmed, &ctx)
	body = substituteScope(body, ctx, captureGroups(ctx))

	var out []string
	if pieces, sep := preprocessor.SplitTopLevelAny(body, "%%"); sep != "" {
		for _, piece := range preprocessor.TrimAll(pieces) {
			out = append(out, a.runListBody(piece, ctx)...)
		}
	} else {
		out = a.runListBody(body, ctx)
	}

	if reverse {
		reverseStrings(out)
	}
	return out
}

func (a *Analyzer) runListBody(body string, ctx models.ExecutionContext) []string {
	steps := splitSteps(body)
	if len(steps) == 0 {
		return nil
	}

	input := ctx.Var("content")
	for _, step := range steps[:len(steps)-1] {
		input = a.runStep(step, ctx, input)
		ctx = ctx.WithVar("result", input).WithVar("content", input).WithVar("it", input)
	}

	return a.runListStep(steps[len(steps)-1], ctx, input)
}

func (a *Analyzer) runListStep(step string, ctx models.ExecutionContext, input string) []string {
	pre := preprocessor.Preprocess(step)

	if pre.IsComposite {
		var segResults [][]string
		for _, seg := range pre.Composite {
			segResults = append(segResults, a.runListPreprocessed(seg, ctx, input))
		}
		if pre.Join == models.JoinFirstMatch {
			for _, r := range segResults {
				if len(r) > 0 {
					return r
				}
			}
			return nil
		}
		var all []string
		for _, r := range segResults {
			all = append(all, r...)
		}
		return all
	}

	return a.runListPreprocessed(pre, ctx, input)
}

func (a *Analyzer) runListPreprocessed(pre models.PreprocessedRule, ctx models.ExecutionContext, input string) []string {
	for k, v := range pre.PutVars {
		ctx = ctx.WithVar(k, v)
	}

	var out []string
	if pre.Type == models.RuleScript {
		out = a.runListScript(pre.Body, ctx, input)
	} else {
		fe, ok := a.frontends[pre.Type]
		if !ok {
			a.warn("no frontend for rule type", pre.Type.String())
			return nil
		}
		out = fe.GetList(input, pre.Body)
	}

	if pre.HasRegexSuffix {
		for i, el := range out {
			out[i] = applyRegexSuffix(el, pre.RegexPattern, pre.RegexReplacement, pre.RegexFirstOnly)
		}
	}
	return out
}

func (a *Analyzer) runListScript(body string, ctx models.ExecutionContext, input string) []string {
	verdict := a.scriptAn.Analyze(body)
	scopedCtx := ctx.WithVar("result", input).WithVar("content", input)

	var raw string
	switch verdict.Kind {
	case models.VerdictNative:
		raw = a.exec.EvalPlan(verdict.Plan, scopedCtx, input)
	case models.VerdictNativeChain:
		raw = a.exec.EvalChain(verdict.Chain, scopedCtx, input)
	default:
		res, err := a.evalScript(verdict.Text, scopedCtx)
		if err != nil {
			a.warn("list script execution failed", err.Error())
			return nil
		}
		raw = res
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		if raw == "" {
			return nil
		}
		return []string{raw}
	}
	return list
}

// GetElements implements spec.md §4.7 get_elements(content, rule): like
// GetList, but the selector front-ends return raw element fragments instead
// of extracted text/attribute values.
func (a *Analyzer) GetElements(raw string, ctx models.ExecutionContext) []string {
	body := extractPut(strings.TrimSpace(raw), &ctx)
	body = substituteScope(body, ctx, captureGroups(ctx))

	pre := preprocessor.Preprocess(body)
	if pre.IsComposite || pre.Type == models.RuleScript {
		// Element fragments are only meaningful for selector rules;
		// composite/script rule bodies fall back to GetList's string
		// semantics for a best-effort result.
		return a.GetList(raw, ctx)
	}

	fe, ok := a.frontends[pre.Type]
	if !ok {
		return nil
	}
	return fe.GetElements(ctx.Var("content"), pre.Body)
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
