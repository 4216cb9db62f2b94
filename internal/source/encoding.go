package source

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeToUTF8 detects the encoding of raw spreadsheet-tool output, strips any
// BOM, and returns NFC-normalized UTF-8 along with the detected encoding name.
// Handles UTF-8 (with or without BOM), UTF-16 LE/BE with BOM, and falls back
// to Latin-1 for anything that is not valid UTF-8.
func decodeToUTF8(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, "utf-8", nil
	}

	if bytes.HasPrefix(data, bomUTF8) {
		return norm.NFC.Bytes(data[3:]), "utf-8-bom", nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		decoded, err := decodeUTF16(data[2:], true)
		if err != nil {
			return nil, "", fmt.Errorf("utf-16le decode: %w", err)
		}
		return norm.NFC.Bytes(decoded), "utf-16le", nil
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		decoded, err := decodeUTF16(data[2:], false)
		if err != nil {
			return nil, "", fmt.Errorf("utf-16be decode: %w", err)
		}
		return norm.NFC.Bytes(decoded), "utf-16be", nil
	}

	if utf8.Valid(data) {
		return norm.NFC.Bytes(data), "utf-8", nil
	}

	// Latin-1 maps every byte directly to the same Unicode code point.
	var buf bytes.Buffer
	buf.Grow(len(data) * 2)
	for _, b := range data {
		buf.WriteRune(rune(b))
	}
	return buf.Bytes(), "latin-1", nil
}

func decodeUTF16(data []byte, littleEndian bool) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("odd byte length %d", len(data))
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		if littleEndian {
			units = append(units, uint16(data[i])|uint16(data[i+1])<<8)
		} else {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		}
	}
	return []byte(string(utf16.Decode(units))), nil
}
