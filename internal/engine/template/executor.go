// Package template implements L4 (spec.md §4.5): the template executor and
// the native-execution-plan interpreter, the two "script-free" evaluators
// that let a compiled rule avoid the goja engine entirely.
package template

import (
	"strings"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

// ScriptFallback evaluates one opaque script expression (a ScriptExpr part,
// or a NativeCall whose method is not in the catalogue) against the current
// scope. Wired to the L5 script executor by the caller.
type ScriptFallback func(expr string, ctx models.ExecutionContext) (string, error)

// Executor evaluates ParsedTemplates and NativeExecutionPlans.
type Executor struct {
	Provider *nativeapi.Provider
	Fallback ScriptFallback
}

func New(provider *nativeapi.Provider, fallback ScriptFallback) *Executor {
	return &Executor{Provider: provider, Fallback: fallback}
}

// EvalTemplate evaluates a parsed template against ctx, recursing into
// NativeCall arguments (spec.md §4.5 "straight recursion").
func (e *Executor) EvalTemplate(tmpl models.ParsedTemplate, ctx models.ExecutionContext) (string, error) {
	var b strings.Builder
	for _, part := range tmpl {
		val, err := e.evalPart(part, ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(val)
	}
	return b.String(), nil
}

func (e *Executor) evalPart(part models.TemplatePart, ctx models.ExecutionContext) (string, error) {
	switch part.Kind {
	case models.PartLiteral:
		return part.Literal, nil

	case models.PartVariable:
		return e.resolveVariable(part.Name, ctx), nil

	case models.PartNativeCall:
		args := make([]string, 0, len(part.Args))
		for _, argTmpl := range part.Args {
			val, err := e.EvalTemplate(argTmpl, ctx)
			if err != nil {
				return "", err
			}
			args = append(args, val)
		}
		if part.APIKnown && e.Provider != nil {
			return e.Provider.Execute(part.API, args, nativeapi.Context{BaseURL: ctx.BaseURL}), nil
		}
		return e.runFallback(rebuildCall(part.API, args), ctx)

	case models.PartScriptExpr:
		return e.runFallback(part.Literal, ctx)
	}
	return "", nil
}

func (e *Executor) runFallback(expr string, ctx models.ExecutionContext) (string, error) {
	if e.Fallback == nil {
		return "", nil
	}
	return e.Fallback(expr, ctx)
}

// resolveVariable looks up a template variable: baseUrl and key resolve
// against ctx's own fields, every other name (result, content, src and page
// included) against the variable scope.
func (e *Executor) resolveVariable(name string, ctx models.ExecutionContext) string {
	switch name {
	case "baseUrl":
		return ctx.BaseURL
	case "key":
		return ctx.Key
	default:
		return ctx.Var(name)
	}
}

func rebuildCall(api string, args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
	}
	return "java." + api + "(" + strings.Join(quoted, ", ") + ")"
}
