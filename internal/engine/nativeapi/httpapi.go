package nativeapi

import (
	"context"
	"encoding/json"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// execHTTP drives the HTTPCollaborator for the http group (spec.md §6
// "http: get/post/request/getAll"). Every call, success or failure, yields
// the JSON envelope {body, code, headers, url} (getAll yields a JSON array
// of such envelopes, one per URL); transport failures are
// carried as code 0 with an empty body rather than surfaced as E-NativeFail,
// since scripts routinely branch on response.code.
func (p *Provider) execHTTP(api string, args []string, ctx Context) string {
	if p.HTTP == nil {
		p.warn(api, "no http collaborator configured")
		return envelope(interfaces.HTTPResponse{})
	}

	switch api {
	case "get":
		return p.doHTTP(interfaces.HTTPRequest{Method: "GET", URL: resolveURL(ctx, arg(args, 0))})

	case "post":
		return p.doHTTP(interfaces.HTTPRequest{
			Method: "POST",
			URL:    resolveURL(ctx, arg(args, 0)),
			Body:   arg(args, 1),
		})

	case "request":
		req := interfaces.HTTPRequest{
			Method: arg(args, 0),
			URL:    resolveURL(ctx, arg(args, 1)),
			Body:   arg(args, 2),
		}
		if req.Method == "" {
			req.Method = "GET"
		}
		if headersJSON := arg(args, 3); headersJSON != "" {
			var hdrs map[string]string
			if err := json.Unmarshal([]byte(headersJSON), &hdrs); err == nil {
				req.Headers = hdrs
			}
		}
		return p.doHTTP(req)

	case "getAll":
		out := make([]string, 0, len(args))
		for _, u := range args {
			out = append(out, p.doHTTP(interfaces.HTTPRequest{Method: "GET", URL: resolveURL(ctx, u)}))
		}
		b, _ := json.Marshal(out)
		return string(b)
	}
	return ""
}

func (p *Provider) doHTTP(req interfaces.HTTPRequest) string {
	resp, err := p.HTTP.Do(context.Background(), req)
	if err != nil {
		p.warn(req.Method, "http call failed: "+err.Error())
		return envelope(interfaces.HTTPResponse{URL: req.URL})
	}
	return envelope(*resp)
}

func envelope(resp interfaces.HTTPResponse) string {
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func resolveURL(ctx Context, u string) string {
	if u == "" {
		return ctx.BaseURL
	}
	return u
}
