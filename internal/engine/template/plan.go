package template

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

// EvalPlan interprets a NativeExecutionPlan (spec.md §4.5): each Operation
// runs in order, its Operand references resolved against the ambient
// scope, the input binding, and the previous operation's result.
func (e *Executor) EvalPlan(plan *models.NativeExecutionPlan, ctx models.ExecutionContext, input string) string {
	prev := ""
	for _, op := range plan.Operations {
		prev = e.runOperation(op, ctx, plan, input, prev)
	}
	return prev
}

// EvalChain threads each plan's output into the next as its input
// (spec.md §3 "CompiledRule: NativeChain"), the script-free equivalent of a
// pipe of dependent native calls.
func (e *Executor) EvalChain(chain []*models.NativeExecutionPlan, ctx models.ExecutionContext, input string) string {
	current := input
	for _, plan := range chain {
		current = e.EvalPlan(plan, ctx, current)
	}
	return current
}

func (e *Executor) runOperation(op models.Operation, ctx models.ExecutionContext, plan *models.NativeExecutionPlan, input, prev string) string {
	switch op.Kind {
	case models.OpLiteral:
		return e.resolveOperand(op.Literal, ctx, plan, input, prev)

	case models.OpApiCall:
		args := make([]string, 0, len(op.APIArgs))
		for _, a := range op.APIArgs {
			args = append(args, e.resolveOperand(a, ctx, plan, input, prev))
		}
		if e.Provider == nil {
			return ""
		}
		return e.Provider.Execute(op.API, args, nativeapi.Context{BaseURL: ctx.BaseURL})

	case models.OpMethodCall:
		object := e.resolveOperand(op.Object, ctx, plan, input, prev)
		args := make([]string, 0, len(op.Args))
		for _, a := range op.Args {
			args = append(args, e.resolveOperand(a, ctx, plan, input, prev))
		}
		if e.Provider == nil {
			return ""
		}
		return e.Provider.Execute(op.Method, append([]string{object}, args...), nativeapi.Context{BaseURL: ctx.BaseURL})

	case models.OpPropertyAccess:
		object := e.resolveOperand(op.PropObject, ctx, plan, input, prev)
		return propertyAccess(object, op.Key)

	case models.OpBinaryOp:
		lhs := e.resolveOperand(op.LHS, ctx, plan, input, prev)
		rhs := e.resolveOperand(op.RHS, ctx, plan, input, prev)
		return binaryOp(lhs, op.Op, rhs)

	case models.OpConditional:
		if truthy(e.resolveOperand(op.Test, ctx, plan, input, prev)) {
			return e.resolveOperand(op.Then, ctx, plan, input, prev)
		}
		return e.resolveOperand(op.Else, ctx, plan, input, prev)

	case models.OpTemplateLiteral:
		var b strings.Builder
		for _, part := range op.Parts {
			b.WriteString(e.resolveOperand(part, ctx, plan, input, prev))
		}
		return b.String()
	}
	return ""
}

func (e *Executor) resolveOperand(o models.Operand, ctx models.ExecutionContext, plan *models.NativeExecutionPlan, input, prev string) string {
	switch o.Kind {
	case models.OperandLiteral:
		return o.Literal

	case models.OperandVariable:
		return ctx.Var(o.Name)

	case models.OperandContext:
		return resolveContext(o.Context, ctx, plan, input)

	case models.OperandPrevResult:
		return prev

	case models.OperandNestedPlan:
		if o.Nested == nil {
			return ""
		}
		return e.EvalPlan(o.Nested, ctx, input)

	case models.OperandArray:
		parts := make([]string, 0, len(o.Array))
		for _, el := range o.Array {
			parts = append(parts, e.resolveOperand(el, ctx, plan, input, prev))
		}
		b, _ := json.Marshal(parts)
		return string(b)

	case models.OperandObject:
		obj := make(map[string]string, len(o.Object))
		for k, v := range o.Object {
			obj[k] = e.resolveOperand(v, ctx, plan, input, prev)
		}
		b, _ := json.Marshal(obj)
		return string(b)
	}
	return ""
}

func resolveContext(ref models.ContextRef, ctx models.ExecutionContext, plan *models.NativeExecutionPlan, input string) string {
	switch ref {
	case models.CtxResult:
		if plan.InputBinding == models.BindResult {
			return input
		}
		return ctx.Var("result")
	case models.CtxContent:
		if plan.InputBinding == models.BindContent {
			return input
		}
		return ctx.Var("content")
	case models.CtxSrc:
		return ctx.Var("src")
	case models.CtxKey:
		return ctx.Key
	case models.CtxPage:
		return strconv.Itoa(ctx.Page)
	case models.CtxBaseUrl:
		return ctx.BaseURL
	case models.CtxBook:
		return jsonOf(ctx.Book)
	case models.CtxChapter:
		return jsonOf(ctx.Chapter)
	case models.CtxSource:
		return jsonOf(ctx.Source)
	}
	return ""
}

func jsonOf(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func propertyAccess(object, key string) string {
	if key == "length" {
		return strconv.Itoa(len([]rune(object)))
	}
	res := gjson.Get(object, key)
	if !res.Exists() {
		return ""
	}
	return res.String()
}

func binaryOp(lhs, op, rhs string) string {
	switch op {
	case "+":
		if lf, lok := asFloat(lhs); lok {
			if rf, rok := asFloat(rhs); rok {
				return formatFloat(lf + rf)
			}
		}
		return lhs + rhs
	case "-", "*", "/":
		lf, lok := asFloat(lhs)
		rf, rok := asFloat(rhs)
		if !lok || !rok {
			return ""
		}
		switch op {
		case "-":
			return formatFloat(lf - rf)
		case "*":
			return formatFloat(lf * rf)
		case "/":
			if rf == 0 {
				return ""
			}
			return formatFloat(lf / rf)
		}
	case "==":
		return strconv.FormatBool(lhs == rhs)
	case "!=":
		return strconv.FormatBool(lhs != rhs)
	case "<", ">", "<=", ">=":
		lf, lok := asFloat(lhs)
		rf, rok := asFloat(rhs)
		if !lok || !rok {
			return strconv.FormatBool(compareStrings(lhs, op, rhs))
		}
		return strconv.FormatBool(compareFloats(lf, op, rf))
	case "&&":
		return strconv.FormatBool(truthy(lhs) && truthy(rhs))
	case "||":
		return strconv.FormatBool(truthy(lhs) || truthy(rhs))
	}
	return ""
}

func asFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func compareFloats(l float64, op string, r float64) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	}
	return false
}

func compareStrings(l, op, r string) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	}
	return false
}

func truthy(s string) bool {
	return s != "" && s != "0" && s != "false"
}
