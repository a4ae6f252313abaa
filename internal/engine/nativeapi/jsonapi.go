package nativeapi

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// execJSON drives the json group (spec.md §6: "json: jsonPath/parse/
// stringify") on gjson, mirroring the jsonpath parser front-end's library
// choice.
func (p *Provider) execJSON(api string, args []string) string {
	switch api {
	case "jsonPath":
		res := gjson.Get(arg(args, 0), arg(args, 1))
		if !res.Exists() {
			return ""
		}
		return res.String()

	case "parse":
		var v any
		if err := json.Unmarshal([]byte(arg(args, 0)), &v); err != nil {
			p.warn(api, "invalid json: "+err.Error())
			return ""
		}
		b, _ := json.Marshal(v)
		return string(b)

	case "stringify":
		return arg(args, 0)
	}
	return ""
}
