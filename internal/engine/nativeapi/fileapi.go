package nativeapi

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// execFile drives the local file cache under Provider.FileRoot for the file
// group (spec.md §6 "file: readFile, readTxtFile[WithCharset], deleteFile,
// getFile, importScript"). Paths are always resolved relative to FileRoot;
// a rule can never escape it.
func (p *Provider) execFile(api string, args []string) string {
	switch api {
	case "readFile":
		b, err := os.ReadFile(p.resolvePath(arg(args, 0)))
		if err != nil {
			p.warn(api, "read failed: "+err.Error())
			return ""
		}
		return hex.EncodeToString(b)

	case "readTxtFile":
		return p.readTextFile(arg(args, 0), "utf8")

	case "readTxtFileWithCharset":
		return p.readTextFile(arg(args, 0), arg(args, 1))

	case "deleteFile":
		if err := os.Remove(p.resolvePath(arg(args, 0))); err != nil {
			p.warn(api, "delete failed: "+err.Error())
			return ""
		}
		return ""

	case "getFile":
		return p.resolvePath(arg(args, 0))

	case "importScript":
		b, err := os.ReadFile(p.resolvePath(arg(args, 0)))
		if err != nil {
			p.warn(api, "import failed: "+err.Error())
			return ""
		}
		return string(b)
	}
	return ""
}

func (p *Provider) resolvePath(name string) string {
	return filepath.Join(p.FileRoot, filepath.Clean("/"+name))
}

func (p *Provider) readTextFile(name, charset string) string {
	b, err := os.ReadFile(p.resolvePath(name))
	if err != nil {
		p.warn("readTxtFile", "read failed: "+err.Error())
		return ""
	}
	switch charset {
	case "gbk":
		out, decErr := simplifiedchinese.GBK.NewDecoder().Bytes(b)
		if decErr != nil {
			p.warn("readTxtFile", "gbk decode failed")
			return ""
		}
		return string(out)
	case "gb2312":
		out, decErr := simplifiedchinese.GBK.NewDecoder().Bytes(b)
		if decErr != nil {
			p.warn("readTxtFile", "gb2312 decode failed")
			return ""
		}
		return string(out)
	case "gb18030":
		out, decErr := simplifiedchinese.GB18030.NewDecoder().Bytes(b)
		if decErr != nil {
			p.warn("readTxtFile", "gb18030 decode failed")
			return ""
		}
		return string(out)
	default:
		return string(b)
	}
}
