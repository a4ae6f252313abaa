package nativeapi

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// execFont implements decodeObfuscatedFont (SPEC_FULL.md §12, grounded on
// reader-rs/src/engine/query_ttf.rs). Some sites scramble chapter text by
// embedding a custom font whose cmap table maps ordinary-looking codepoints
// to arbitrary glyphs; the source config carries the glyph-index -> real
// character table it was derived with once, and this call re-applies it.
//
// args: [fontHex, obfuscatedText, glyphMapJSON]. glyphMapJSON maps decimal
// glyph-index strings to their real character.
func (p *Provider) execFont(args []string) string {
	fontBytes, err := hex.DecodeString(arg(args, 0))
	if err != nil {
		p.warn("decodeObfuscatedFont", "invalid font hex")
		return arg(args, 1)
	}

	runeToGlyph, err := parseCmapFormat4(fontBytes)
	if err != nil {
		p.warn("decodeObfuscatedFont", "cmap parse failed: "+err.Error())
		return arg(args, 1)
	}

	var glyphMap map[string]string
	if raw := arg(args, 2); raw != "" {
		if err := json.Unmarshal([]byte(raw), &glyphMap); err != nil {
			p.warn("decodeObfuscatedFont", "invalid glyph map json")
			glyphMap = nil
		}
	}

	var out strings.Builder
	for _, r := range arg(args, 1) {
		glyph, ok := runeToGlyph[r]
		if !ok || glyphMap == nil {
			out.WriteRune(r)
			continue
		}
		if real, ok := glyphMap[strconv.Itoa(int(glyph))]; ok {
			out.WriteString(real)
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// parseCmapFormat4 extracts the unicode -> glyph-index mapping from a TTF's
// 'cmap' table, format 4 subtable (the common BMP Windows/Unicode subtable).
func parseCmapFormat4(font []byte) (map[rune]uint16, error) {
	cmapOffset, err := findTable(font, "cmap")
	if err != nil {
		return nil, err
	}

	numTables := binary.BigEndian.Uint16(font[cmapOffset+2:])
	var subtableOffset uint32
	found := false
	for i := 0; i < int(numTables); i++ {
		rec := cmapOffset + 4 + i*8
		platformID := binary.BigEndian.Uint16(font[rec:])
		encodingID := binary.BigEndian.Uint16(font[rec+2:])
		offset := binary.BigEndian.Uint32(font[rec+4:])
		if platformID == 3 && (encodingID == 1 || encodingID == 0) {
			subtableOffset = offset
			found = true
			break
		}
	}
	if !found {
		return nil, errUnsupportedCmap
	}

	base := cmapOffset + int(subtableOffset)
	format := binary.BigEndian.Uint16(font[base:])
	if format != 4 {
		return nil, errUnsupportedCmap
	}

	segCountX2 := binary.BigEndian.Uint16(font[base+6:])
	segCount := int(segCountX2 / 2)

	endCodeBase := base + 14
	startCodeBase := endCodeBase + int(segCountX2) + 2
	idDeltaBase := startCodeBase + int(segCountX2)
	idRangeOffsetBase := idDeltaBase + int(segCountX2)

	result := make(map[rune]uint16)
	for seg := 0; seg < segCount; seg++ {
		endCode := binary.BigEndian.Uint16(font[endCodeBase+seg*2:])
		startCode := binary.BigEndian.Uint16(font[startCodeBase+seg*2:])
		idDelta := binary.BigEndian.Uint16(font[idDeltaBase+seg*2:])
		idRangeOffset := binary.BigEndian.Uint16(font[idRangeOffsetBase+seg*2:])

		if startCode == 0xFFFF && endCode == 0xFFFF {
			continue
		}
		for c := uint32(startCode); c <= uint32(endCode) && c != 0xFFFF; c++ {
			var glyph uint16
			if idRangeOffset == 0 {
				glyph = uint16(c) + idDelta
			} else {
				glyphIndexAddr := idRangeOffsetBase + seg*2 + int(idRangeOffset) + int(c-uint32(startCode))*2
				if glyphIndexAddr+2 > len(font) {
					continue
				}
				glyph = binary.BigEndian.Uint16(font[glyphIndexAddr:])
				if glyph != 0 {
					glyph += idDelta
				}
			}
			if glyph != 0 {
				result[rune(c)] = glyph
			}
		}
	}
	return result, nil
}

func findTable(font []byte, tag string) (int, error) {
	if len(font) < 12 {
		return 0, errUnsupportedCmap
	}
	numTables := binary.BigEndian.Uint16(font[4:])
	for i := 0; i < int(numTables); i++ {
		rec := 12 + i*16
		if rec+16 > len(font) {
			break
		}
		if string(font[rec:rec+4]) == tag {
			offset := binary.BigEndian.Uint32(font[rec+8:])
			return int(offset), nil
		}
	}
	return 0, errUnsupportedCmap
}

var errUnsupportedCmap = errTTF("unsupported or missing cmap table")

type errTTF string

func (e errTTF) Error() string { return string(e) }
