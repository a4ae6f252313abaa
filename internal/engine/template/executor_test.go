package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/engine/preprocessor"
	"github.com/ternarybob/bookscraper/internal/models"
)

func TestEvalTemplate_PureVariables(t *testing.T) {
	ex := New(nativeapi.New(nil), nil)
	tmpl := preprocessor.ParseTemplate("https://example.com/s?q={{key}}&p={{page}}")
	ctx := models.ExecutionContext{Key: "dragon", Vars: map[string]string{"page": "2"}}

	out, err := ex.EvalTemplate(tmpl, ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/s?q=dragon&p=2", out)
}

func TestEvalTemplate_KnownNativeCall(t *testing.T) {
	ex := New(nativeapi.New(nil), nil)
	tmpl := preprocessor.ParseTemplate(`{{java.md5("abc")}}`)
	out, err := ex.EvalTemplate(tmpl, models.ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", out)
}

func TestEvalTemplate_UnknownNativeCallFallsBack(t *testing.T) {
	called := false
	ex := New(nativeapi.New(nil), func(expr string, ctx models.ExecutionContext) (string, error) {
		called = true
		return "fallback", nil
	})
	tmpl := preprocessor.ParseTemplate(`{{java.notARealMethod("x")}}`)
	out, err := ex.EvalTemplate(tmpl, models.ExecutionContext{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "fallback", out)
}

func TestEvalPlan_ApiCallOnResult(t *testing.T) {
	plan := &models.NativeExecutionPlan{
		InputBinding: models.BindResult,
		Operations: []models.Operation{
			{
				Kind: models.OpApiCall,
				API:  "md5",
				APIArgs: []models.Operand{
					{Kind: models.OperandContext, Context: models.CtxResult},
				},
			},
		},
	}
	ex := New(nativeapi.New(nil), nil)
	out := ex.EvalPlan(plan, models.ExecutionContext{}, "abc")
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", out)
}
