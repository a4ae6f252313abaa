package nativeapi

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// execZip drives the zip group (spec.md §6 "zip: zipReadString[WithCharset],
// zipReadBytes, zipExtract") on archive/zip; no suitable third-party zip
// reader surfaced in the teacher stack, so this group is stdlib (see
// DESIGN.md).
func (p *Provider) execZip(api string, args []string) string {
	switch api {
	case "zipReadString":
		return p.zipReadEntry(arg(args, 0), arg(args, 1), "utf8")

	case "zipReadStringWithCharset":
		return p.zipReadEntry(arg(args, 0), arg(args, 1), arg(args, 2))

	case "zipReadBytes":
		b, err := p.zipReadRaw(arg(args, 0), arg(args, 1))
		if err != nil {
			p.warn(api, err.Error())
			return ""
		}
		return hex.EncodeToString(b)

	case "zipExtract":
		return p.zipExtract(arg(args, 0), arg(args, 1))
	}
	return ""
}

func (p *Provider) zipReadEntry(archiveName, entryName, charset string) string {
	raw, err := p.zipReadRaw(archiveName, entryName)
	if err != nil {
		p.warn("zipReadString", err.Error())
		return ""
	}
	switch charset {
	case "gbk":
		out, decErr := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
		if decErr != nil {
			return ""
		}
		return string(out)
	default:
		return string(raw)
	}
}

func (p *Provider) zipReadRaw(archiveName, entryName string) ([]byte, error) {
	r, err := zip.OpenReader(p.resolvePath(archiveName))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryName {
			continue
		}
		rc, openErr := f.Open()
		if openErr != nil {
			return nil, openErr
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, os.ErrNotExist
}

func (p *Provider) zipExtract(archiveName, destDir string) string {
	r, err := zip.OpenReader(p.resolvePath(archiveName))
	if err != nil {
		p.warn("zipExtract", err.Error())
		return ""
	}
	defer r.Close()

	dest := p.resolvePath(destDir)
	for _, f := range r.File {
		target := filepath.Join(dest, filepath.Clean("/"+f.Name))
		if f.FileInfo().IsDir() {
			os.MkdirAll(target, 0o755)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			p.warn("zipExtract", err.Error())
			return ""
		}
		rc, openErr := f.Open()
		if openErr != nil {
			p.warn("zipExtract", openErr.Error())
			return ""
		}
		var buf bytes.Buffer
		if _, copyErr := io.Copy(&buf, rc); copyErr != nil {
			rc.Close()
			p.warn("zipExtract", copyErr.Error())
			return ""
		}
		rc.Close()
		if writeErr := os.WriteFile(target, buf.Bytes(), 0o644); writeErr != nil {
			p.warn("zipExtract", writeErr.Error())
			return ""
		}
	}
	return dest
}
