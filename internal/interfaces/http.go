package interfaces

import "context"

// HTTPResponse is the normalized result of one HTTP collaborator call,
// matching the JSON-encoded envelope native HTTP calls return to scripts
// (spec.md §6: `{"body","code","headers","url"}`).
type HTTPResponse struct {
	Body    string            `json:"body"`
	Code    int               `json:"code"`
	Headers map[string]string `json:"headers"`
	URL     string            `json:"url"`
}

// HTTPRequest is a fully-resolved request: method, URL, optional body, and
// headers, plus the webView/proxy/retry hints carried by a URL template's
// options (spec.md §6 UrlOptions).
type HTTPRequest struct {
	Method  string
	URL     string
	Body    string
	Headers map[string]string
	Charset string
	WebView bool
	Proxy   string
	Retry   int
}

// HTTPCollaborator is the narrow transport seam the core calls through
// (spec.md §1 non-goals: "HTTP transport details ... not part of the
// core"). It is the only suspension point besides KeyValueStore.
type HTTPCollaborator interface {
	Do(ctx context.Context, req HTTPRequest) (*HTTPResponse, error)
}

// BrowserRenderer is the headless-browser collaborator used when a URL
// template's options request `webView`/`js` (spec.md §6 OPTIONS). Render
// loads the URL, optionally runs an injected script, and returns the final
// rendered HTML.
type BrowserRenderer interface {
	Render(ctx context.Context, url string, script string) (html string, err error)
}

// CloudflareBypass is the side-channel collaborator for sources whose
// response carries a Cloudflare challenge marker (SPEC_FULL.md §12,
// grounded on reader-rs/src/engine/flaresolverr.rs). It resolves a
// challenge for rawURL and returns the clearance cookie plus the user agent
// that obtained it.
type CloudflareBypass interface {
	Resolve(ctx context.Context, rawURL string) (cookie string, userAgent string, err error)
}
