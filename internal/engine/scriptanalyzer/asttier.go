package scriptanalyzer

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"

	"github.com/ternarybob/bookscraper/internal/models"
)

// reservedContext maps the ambient-scope identifier names (spec.md §4.3) to
// their ContextRef.
var reservedContext = map[string]models.ContextRef{
	"result":  models.CtxResult,
	"content": models.CtxContent,
	"src":     models.CtxSrc,
	"baseUrl": models.CtxBaseUrl,
	"key":     models.CtxKey,
	"page":    models.CtxPage,
	"book":    models.CtxBook,
	"chapter": models.CtxChapter,
	"source":  models.CtxSource,
}

var knownHostNamespaces = map[string]bool{"java": true, "JSON": true, "source": true}

var knownMethods = map[string]bool{
	"text": true, "textNodes": true, "ownText": true, "html": true, "outerHtml": true, "innerHtml": true,
	"trim": true, "replace": true, "replaceAll": true, "split": true, "substring": true, "substr": true,
	"slice": true, "indexOf": true, "lastIndexOf": true, "includes": true, "startsWith": true, "endsWith": true,
	"toLowerCase": true, "toUpperCase": true, "charAt": true, "charCodeAt": true, "match": true,
	"padStart": true, "padEnd": true, "repeat": true, "normalize": true, "search": true, "concat": true,
	"join": true, "map": true, "filter": true, "forEach": true, "push": true, "pop": true, "reverse": true,
}

// astTier runs the AST tier of spec.md §4.3: parse the script, and if its
// body is exactly one expression statement, map it to a NativeExecutionPlan
// operation tree. Any other top-level shape (multiple statements, control
// flow, function/arrow expressions) yields ok=false ("RequiresScript").
func astTier(body string) (*models.NativeExecutionPlan, bool) {
	program, err := parser.ParseFile(nil, "", body, 0)
	if err != nil || program == nil || len(program.Body) != 1 {
		return nil, false
	}

	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}

	op, ok := mapExpression(stmt.Expression)
	if !ok {
		return nil, false
	}

	return &models.NativeExecutionPlan{Operations: []models.Operation{op}}, true
}

func mapExpression(expr ast.Expression) (models.Operation, bool) {
	operand, ok := mapOperand(expr)
	if ok {
		return models.Operation{Kind: models.OpLiteral, Literal: operand}, true
	}

	switch e := expr.(type) {
	case *ast.CallExpression:
		return mapCall(e)

	case *ast.DotExpression:
		obj, ok := mapOperand(e.Left)
		if !ok {
			return models.Operation{}, false
		}
		return models.Operation{Kind: models.OpPropertyAccess, PropObject: obj, Key: e.Identifier.Name.String()}, true

	case *ast.BinaryExpression:
		lhs, ok1 := mapOperand(e.Left)
		rhs, ok2 := mapOperand(e.Right)
		if !ok1 || !ok2 {
			return models.Operation{}, false
		}
		return models.Operation{Kind: models.OpBinaryOp, LHS: lhs, Op: e.Operator.String(), RHS: rhs}, true

	case *ast.ConditionalExpression:
		test, ok1 := mapOperand(e.Test)
		then, ok2 := mapOperand(e.Consequent)
		els, ok3 := mapOperand(e.Alternate)
		if !ok1 || !ok2 || !ok3 {
			return models.Operation{}, false
		}
		return models.Operation{Kind: models.OpConditional, Test: test, Then: then, Else: els}, true

	case *ast.TemplateLiteral:
		parts := make([]models.Operand, 0, len(e.Expressions)+len(e.Elements))
		for i, el := range e.Elements {
			if el.Literal != "" {
				parts = append(parts, lit(el.Literal))
			}
			if i < len(e.Expressions) {
				if o, ok := mapOperand(e.Expressions[i]); ok {
					parts = append(parts, o)
				} else {
					return models.Operation{}, false
				}
			}
		}
		return models.Operation{Kind: models.OpTemplateLiteral, Parts: parts}, true
	}

	return models.Operation{}, false
}

// mapCall distinguishes `ns.method(args)` host-namespace calls from
// `expr.method(args)` string/array method calls (spec.md §4.3).
func mapCall(call *ast.CallExpression) (models.Operation, bool) {
	dot, ok := call.Callee.(*ast.DotExpression)
	if !ok {
		return models.Operation{}, false
	}

	method := dot.Identifier.Name.String()

	if ident, ok := dot.Left.(*ast.Identifier); ok && knownHostNamespaces[ident.Name.String()] {
		args, ok := mapOperands(call.ArgumentList)
		if !ok {
			return models.Operation{}, false
		}
		return models.Operation{Kind: models.OpApiCall, API: method, APIArgs: args}, true
	}

	if !knownMethods[method] {
		return models.Operation{}, false
	}

	obj, ok := mapOperand(dot.Left)
	if !ok {
		return models.Operation{}, false
	}
	args, ok := mapOperands(call.ArgumentList)
	if !ok {
		return models.Operation{}, false
	}
	return models.Operation{Kind: models.OpMethodCall, Object: obj, Method: method, Args: args}, true
}

func mapOperands(exprs []ast.Expression) ([]models.Operand, bool) {
	out := make([]models.Operand, 0, len(exprs))
	for _, e := range exprs {
		o, ok := mapOperand(e)
		if !ok {
			return nil, false
		}
		out = append(out, o)
	}
	return out, true
}

// mapOperand maps a leaf expression (literal, identifier, nested call/dot)
// to an Operand. Anything it cannot map becomes ok=false so the caller can
// fail over to RequiresScript.
func mapOperand(expr ast.Expression) (models.Operand, bool) {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return lit(e.Value.String()), true
	case *ast.NumberLiteral:
		return lit(e.Literal), true
	case *ast.BooleanLiteral:
		if e.Value {
			return lit("true"), true
		}
		return lit("false"), true
	case *ast.Identifier:
		name := e.Name.String()
		if ref, ok := reservedContext[name]; ok {
			return models.Operand{Kind: models.OperandContext, Context: ref}, true
		}
		return variable(name), true
	case *ast.BracketExpression:
		obj, ok1 := mapOperand(e.Left)
		key, ok2 := mapOperand(e.Member)
		if !ok1 || !ok2 {
			return models.Operand{}, false
		}
		return models.Operand{Kind: models.OperandNestedPlan, Nested: &models.NativeExecutionPlan{
			Operations: []models.Operation{{Kind: models.OpPropertyAccess, PropObject: obj, Key: key.Literal}},
		}}, true
	case *ast.CallExpression:
		op, ok := mapCall(e)
		if !ok {
			return models.Operand{}, false
		}
		return models.Operand{Kind: models.OperandNestedPlan, Nested: &models.NativeExecutionPlan{Operations: []models.Operation{op}}}, true
	}
	return models.Operand{}, false
}
