// Package script implements L5 (spec.md §4.6): the goja-based script
// executor, its `java` native-API bridge, and the ambient execution scope.
package script

import (
	"github.com/dop251/goja"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
)

// javaBridgePreamble installs globalThis.java as a Proxy whose every
// property access returns a forwarding function; calling java.METHOD(args)
// marshals args to strings and calls through __nativeCall, which dispatches
// to the nativeapi.Provider bridge-mapper.
const javaBridgePreamble = `
globalThis.java = new Proxy({}, {
  get: function(target, prop) {
    return function() {
      var args = Array.prototype.slice.call(arguments).map(function(a) {
        return a === undefined || a === null ? "" : String(a);
      });
      return __nativeCall(String(prop), args);
    };
  }
});
`

func installJavaBridge(vm *goja.Runtime, provider *nativeapi.Provider, baseURL func() string) error {
	if err := vm.Set("__nativeCall", func(call goja.FunctionCall) goja.Value {
		method := call.Argument(0).String()
		var args []string
		if arr, ok := call.Argument(1).Export().([]interface{}); ok {
			args = make([]string, len(arr))
			for i, a := range arr {
				if s, ok := a.(string); ok {
					args[i] = s
				}
			}
		}
		if provider == nil {
			return vm.ToValue("")
		}
		result := provider.Execute(method, args, nativeapi.Context{BaseURL: baseURL()})
		return vm.ToValue(result)
	}); err != nil {
		return err
	}

	_, err := vm.RunString(javaBridgePreamble)
	return err
}
