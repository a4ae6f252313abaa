package nativeapi

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// execString drives the string group (spec.md §6): trim/replace/split/
// substring/startsWith/endsWith/includes/indexOf/lastIndexOf/padStart/
// padEnd/repeat/charAt/charCodeAt/toUpper/toLower/htmlToText.
func (p *Provider) execString(api string, args []string) string {
	s := arg(args, 0)

	switch api {
	case "trim":
		return strings.TrimSpace(s)

	case "replace":
		return strings.ReplaceAll(s, arg(args, 1), arg(args, 2))

	case "split":
		parts := strings.Split(s, arg(args, 1))
		b, _ := marshalStrings(parts)
		return b

	case "substring":
		return substring(s, arg(args, 1), arg(args, 2))

	case "startsWith":
		return strconv.FormatBool(strings.HasPrefix(s, arg(args, 1)))

	case "endsWith":
		return strconv.FormatBool(strings.HasSuffix(s, arg(args, 1)))

	case "includes":
		return strconv.FormatBool(strings.Contains(s, arg(args, 1)))

	case "indexOf":
		return strconv.Itoa(strings.Index(s, arg(args, 1)))

	case "lastIndexOf":
		return strconv.Itoa(strings.LastIndex(s, arg(args, 1)))

	case "padStart":
		return pad(s, arg(args, 1), arg(args, 2), true)

	case "padEnd":
		return pad(s, arg(args, 1), arg(args, 2), false)

	case "repeat":
		n, err := strconv.Atoi(arg(args, 1))
		if err != nil || n < 0 {
			p.warn(api, "invalid repeat count")
			return ""
		}
		return strings.Repeat(s, n)

	case "charAt":
		idx, err := strconv.Atoi(arg(args, 1))
		runes := []rune(s)
		if err != nil || idx < 0 || idx >= len(runes) {
			return ""
		}
		return string(runes[idx])

	case "charCodeAt":
		idx, err := strconv.Atoi(arg(args, 1))
		runes := []rune(s)
		if err != nil || idx < 0 || idx >= len(runes) {
			return ""
		}
		return strconv.Itoa(int(runes[idx]))

	case "toUpper":
		return strings.ToUpper(s)

	case "toLower":
		return strings.ToLower(s)

	case "htmlToText":
		return htmlToText(s)
	}
	return ""
}

func substring(s, startArg, endArg string) string {
	runes := []rune(s)
	start, err := strconv.Atoi(startArg)
	if err != nil || start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := len(runes)
	if endArg != "" {
		if e, err := strconv.Atoi(endArg); err == nil && e >= 0 && e <= len(runes) {
			end = e
		}
	}
	if end < start {
		start, end = end, start
	}
	return string(runes[start:end])
}

func pad(s, lengthArg, padStr string, start bool) string {
	target, err := strconv.Atoi(lengthArg)
	if err != nil || target <= len(s) {
		return s
	}
	if padStr == "" {
		padStr = " "
	}
	need := target - len(s)
	filler := strings.Repeat(padStr, need/len(padStr)+1)[:need]
	if start {
		return filler + s
	}
	return s + filler
}

func htmlToText(s string) string {
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.TrimSpace(b.String())
}

func marshalStrings(parts []string) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(part))
	}
	b.WriteByte(']')
	return b.String(), nil
}
