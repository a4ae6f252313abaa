package nativeapi

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// Context is the narrow per-call context every native API receives
// (spec.md §6: "(api, args: string[], ctx: {baseUrl})").
type Context struct {
	BaseURL string
}

// Provider is the concrete native-API catalogue collaborator. It holds the
// external collaborators named in spec.md §1 non-goals behind the narrow
// interfaces of internal/interfaces, and a file-cache root for the file/zip
// groups.
type Provider struct {
	HTTP      interfaces.HTTPCollaborator
	Browser   interfaces.BrowserRenderer
	CFBypass  interfaces.CloudflareBypass
	Cookies   interfaces.CookieStore
	KV        interfaces.KeyValueStore
	Cache     interfaces.CacheStore
	FileRoot  string
	Logger    arbor.ILogger
}

func New(logger arbor.ILogger) *Provider {
	return &Provider{Logger: logger}
}

// Execute dispatches one native-API call. Every group returns a string;
// failures become empty string per spec.md §7 (E-NativeArg/E-NativeFail),
// except HTTP which always returns a JSON envelope (success or failure
// status is carried inside it).
func (p *Provider) Execute(api string, args []string, ctx Context) string {
	switch {
	case isEncodingAPI(api):
		return p.execEncoding(api, args)
	case isHashAPI(api):
		return p.execHash(api, args)
	case isCryptoAPI(api):
		return p.execCrypto(api, args)
	case isTimeAPI(api):
		return p.execTime(api, args)
	case isHTTPAPI(api):
		return p.execHTTP(api, args, ctx)
	case isCookieAPI(api):
		return p.execCookie(api, args, ctx)
	case isStorageAPI(api):
		return p.execStorage(api, args, ctx)
	case isFileAPI(api):
		return p.execFile(api, args)
	case isZipAPI(api):
		return p.execZip(api, args)
	case isStringAPI(api):
		return p.execString(api, args)
	case isJSONAPI(api):
		return p.execJSON(api, args)
	case api == "log":
		if p.Logger != nil {
			p.Logger.Info().Str("source", "script").Msg(joinArgs(args))
		}
		return ""
	case api == "decodeObfuscatedFont":
		return p.execFont(args)
	default:
		p.warnUnknown(api)
		return ""
	}
}

func (p *Provider) warn(api, msg string) {
	if p.Logger != nil {
		p.Logger.Warn().Str("api", api).Msg(msg)
	}
}

func (p *Provider) warnUnknown(api string) {
	p.warn(api, "unknown native api")
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func arg(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}
