package script

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/dop251/goja"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

// preloadDestructureRe matches the common `const {java} = this;` idiom
// preload scripts use when they expect a host object bound to `this`
// (spec.md §4.6: "preload script rewrites ... to `var java = globalThis.java`").
var preloadDestructureRe = regexp.MustCompile(`(?m)^\s*(?:const|let|var)\s*\{\s*java\s*\}\s*=\s*this\s*;?\s*$`)

// Instance is one goja runtime bound to a source for its whole session; side
// effects (sourceVar writes, cache mutation, preload-defined helpers)
// persist across calls for its lifetime (spec.md §4.6).
type Instance struct {
	vm       *goja.Runtime
	provider *nativeapi.Provider
	logger   arbor.ILogger
	baseURL  string
}

// NewInstance creates a fresh runtime with the java bridge installed. baseURL
// is mutable via SetBaseURL since one instance may serve several fetches
// against different resolved URLs over its lifetime.
func NewInstance(provider *nativeapi.Provider, logger arbor.ILogger) (*Instance, error) {
	vm := goja.New()
	inst := &Instance{vm: vm, provider: provider, logger: logger}

	if err := installJavaBridge(vm, provider, func() string { return inst.baseURL }); err != nil {
		return nil, err
	}
	return inst, nil
}

func (i *Instance) SetBaseURL(baseURL string) { i.baseURL = baseURL }

// RunPreload executes a source's one-time preload script (spec.md §3
// SourceSpec.Preload), rewriting the legacy `{java}` destructure idiom
// first. Side effects (globals it defines) persist for the instance.
func (i *Instance) RunPreload(src string) error {
	if src == "" {
		return nil
	}
	rewritten := preloadDestructureRe.ReplaceAllString(src, "var java = globalThis.java;")
	_, err := i.vm.RunString(rewritten)
	return err
}

// Run evaluates one script fragment against ctx and returns its string
// result. A fragment that sets `result = ...` rather than evaluating to a
// value is supported by reading the `result` global back out after
// execution when the expression itself yields undefined.
func (i *Instance) Run(fragment string, ctx models.ExecutionContext) (string, error) {
	i.SetBaseURL(ctx.BaseURL)
	i.bindScope(ctx)

	val, err := i.vm.RunString(fragment)
	if err != nil {
		return "", err
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		if resultVal := i.vm.Get("result"); resultVal != nil {
			return i.toResultString(resultVal), nil
		}
		return "", nil
	}
	return i.toResultString(val), nil
}

func (i *Instance) bindScope(ctx models.ExecutionContext) {
	i.vm.Set("result", ctx.Var("result"))
	i.vm.Set("content", ctx.Var("content"))
	i.vm.Set("src", ctx.Var("src"))
	i.vm.Set("baseUrl", ctx.BaseURL)
	i.vm.Set("key", ctx.Key)
	i.vm.Set("page", ctx.Page)
	i.vm.Set("book", toJSObject(i.vm, ctx.Book))
	i.vm.Set("chapter", toJSObject(i.vm, ctx.Chapter))
	i.vm.Set("source", toJSObject(i.vm, ctx.Source))
}

func toJSObject(vm *goja.Runtime, v any) goja.Value {
	if v == nil {
		return goja.Undefined()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return goja.Undefined()
	}
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return goja.Undefined()
	}
	return vm.ToValue(decoded)
}

// toResultString converts a goja value to the string contract every other
// layer expects: strings pass through, everything else is JSON-stringified
// via the runtime's own JSON object so numbers/objects/arrays format the
// way a script author would expect.
func (i *Instance) toResultString(val goja.Value) string {
	if s, ok := val.Export().(string); ok {
		return s
	}
	if n, ok := val.Export().(int64); ok {
		return strconv.FormatInt(n, 10)
	}
	jsonObj := i.vm.Get("JSON")
	if jsonObj == nil {
		return val.String()
	}
	stringify, ok := goja.AssertFunction(jsonObj.ToObject(i.vm).Get("stringify"))
	if !ok {
		return val.String()
	}
	res, err := stringify(goja.Undefined(), val)
	if err != nil {
		return val.String()
	}
	return res.String()
}
