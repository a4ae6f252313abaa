package nativeapi

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

func (p *Provider) execHash(api string, args []string) string {
	switch api {
	case "md5":
		sum := md5.Sum([]byte(arg(args, 0)))
		return hex.EncodeToString(sum[:])

	case "md5_16":
		sum := md5.Sum([]byte(arg(args, 0)))
		return hex.EncodeToString(sum[:])[8:24]

	case "digestHex":
		return digestHex(strings.ToUpper(arg(args, 1)), arg(args, 0), p)
	}
	return ""
}

func digestHex(algo, input string, p *Provider) string {
	switch algo {
	case "MD5":
		sum := md5.Sum([]byte(input))
		return hex.EncodeToString(sum[:])
	case "SHA1":
		sum := sha1.Sum([]byte(input))
		return hex.EncodeToString(sum[:])
	case "SHA256":
		sum := sha256.Sum256([]byte(input))
		return hex.EncodeToString(sum[:])
	case "SHA512":
		sum := sha512.Sum512([]byte(input))
		return hex.EncodeToString(sum[:])
	default:
		p.warn("digestHex", "unknown digest algorithm: "+algo)
		return ""
	}
}
