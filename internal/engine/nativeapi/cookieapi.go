package nativeapi

// execCookie drives the CookieStore for the cookie group (spec.md §6
// "cookie: getCookie/setCookie"). getCookie reads a single named cookie for
// a URL; setCookie is a log-only hint, since the actual jar is populated by
// the HTTP collaborator as responses are observed.
func (p *Provider) execCookie(api string, args []string, ctx Context) string {
	if p.Cookies == nil {
		p.warn(api, "no cookie store configured")
		return ""
	}

	switch api {
	case "getCookie":
		u := arg(args, 0)
		if u == "" {
			u = ctx.BaseURL
		}
		return p.Cookies.Raw(u, arg(args, 1))

	case "setCookie":
		p.warn(api, "setCookie is a read-only hint; cookies are captured from responses")
		return ""
	}
	return ""
}
