package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/models"
)

func TestDetectType(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want models.RuleType
		body string
	}{
		{"css prefix", "@css:.title", models.RuleCSS, ".title"},
		{"css short", "css:.title", models.RuleCSS, ".title"},
		{"xpath prefix", "@xpath://div", models.RuleXPath, "//div"},
		{"xpath bare", "//div/a", models.RuleXPath, "//div/a"},
		{"jsonpath bare", "$.data.list", models.RuleJSONPath, "$.data.list"},
		{"regex colon", ":^\\d+$", models.RuleRegex, "^\\d+$"},
		{"jsoup default", "div.title", models.RuleJsoupDefault, "div.title"},
		{"script wrap", "<script>result</script>", models.RuleScript, "<script>result</script>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gotType, gotBody := DetectType(c.in)
			assert.Equal(t, c.want, gotType)
			assert.Equal(t, c.body, gotBody)
		})
	}
}

// P1: idempotence of classification (spec.md §8).
func TestDetectType_Idempotent(t *testing.T) {
	inputs := []string{"@css:.title", "//div/a", "$.data", "div.title", ":^a$"}
	for _, in := range inputs {
		t1, body1 := DetectType(in)
		t2, _ := DetectType(body1)
		// Re-classifying the stripped body of a non-prefixed type must agree
		// on a stable type (I1: classifying the same string always returns
		// the same type).
		if t1 != models.RuleCSS && t1 != models.RuleXPath && t1 != models.RuleJSONPath && t1 != models.RuleRegex {
			assert.Equal(t, t1, t2)
		}
	}
}

func TestPreprocess_Composite(t *testing.T) {
	r := Preprocess("@css:.missing || @css:.author")
	require.True(t, r.IsComposite)
	require.Equal(t, models.JoinFirstMatch, r.Join)
	require.Len(t, r.Composite, 2)
	assert.Equal(t, models.RuleCSS, r.Composite[0].Type)
	assert.Equal(t, ".missing", r.Composite[0].Body)
	assert.Equal(t, ".author", r.Composite[1].Body)
}

func TestPreprocess_PostScript(t *testing.T) {
	r := Preprocess("@css:.n<script>result.toUpperCase()</script>")
	assert.True(t, r.HasPostScript)
	assert.Equal(t, "result.toUpperCase()", r.PostScript)
	assert.Equal(t, ".n", r.Body)
}

func TestPreprocess_PutVars(t *testing.T) {
	r := Preprocess(`@css:.title@put:{"slug":"abc"}`)
	assert.Equal(t, "abc", r.PutVars["slug"])
	assert.Equal(t, ".title", r.Body)
}

func TestParseTemplate_PureVariables(t *testing.T) {
	tpl := ParseTemplate("https://s.example/q?k={{key}}&p={{page}}")
	require.True(t, tpl.Pure())
	require.Len(t, tpl, 4)
	assert.Equal(t, models.PartVariable, tpl[1].Kind)
	assert.Equal(t, "key", tpl[1].Name)
	assert.Equal(t, models.PartVariable, tpl[3].Kind)
	assert.Equal(t, "page", tpl[3].Name)
}

func TestParseTemplate_NativeCall(t *testing.T) {
	tpl := ParseTemplate("https://s.example/q?k={{java.base64Encode(key)}}")
	require.Len(t, tpl, 2)
	assert.Equal(t, models.PartNativeCall, tpl[1].Kind)
	assert.Equal(t, "base64Encode", tpl[1].API)
	assert.True(t, tpl[1].APIKnown)
	require.Len(t, tpl[1].Args, 1)
	assert.Equal(t, models.PartVariable, tpl[1].Args[0][0].Kind)
}

func TestParseTemplate_UnknownNativeCall(t *testing.T) {
	tpl := ParseTemplate("{{java.doesNotExist(key)}}")
	require.Len(t, tpl, 1)
	assert.False(t, tpl[0].APIKnown)
}

func TestParseTemplate_ScriptExpr(t *testing.T) {
	tpl := ParseTemplate("{{page > 1 ? page - 1 : 1}}")
	require.Len(t, tpl, 1)
	assert.Equal(t, models.PartScriptExpr, tpl[0].Kind)
}
