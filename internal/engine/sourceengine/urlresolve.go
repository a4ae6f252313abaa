package sourceengine

import "net/url"

// resolveRelative resolves ref against base, per spec.md §4.8 "resolving
// relative URLs against the source's derived base URL". Invalid refs are
// returned unchanged.
func resolveRelative(base, ref string) string {
	if ref == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
