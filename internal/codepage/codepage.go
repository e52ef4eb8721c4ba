// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

// Package codepage maps Windows code page identifiers, as they are found in MSG
// properties and RTF headers, to text encodings.
package codepage

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Default is the encoding that is used if no code page is known
var Default encoding.Encoding = charmap.Windows1252

var codePages = map[int]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1200:  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	20127: charmap.Windows1252,
	20866: charmap.KOI8R,
	21866: charmap.KOI8U,
	28591: charmap.ISO8859_1,
	28592: charmap.ISO8859_2,
	28595: charmap.ISO8859_5,
	28597: charmap.ISO8859_7,
	28605: charmap.ISO8859_15,
	50220: japanese.ISO2022JP,
	51932: japanese.EUCJP,
	65001: unicode.UTF8,
}

// Lookup returns the encoding for the given Windows code page identifier.
func Lookup(cp int) (encoding.Encoding, bool) {
	enc, ok := codePages[cp]
	return enc, ok
}

// ByName returns the encoding for a charset name like "utf-8", "windows-1252" or
// "cp1252". Names are resolved via the MIME and IANA indexes.
func ByName(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(n, "cp") {
		var cp int
		if _, err := fmt.Sscanf(n, "cp%d", &cp); err == nil {
			if enc, ok := Lookup(cp); ok {
				return enc, nil
			}
		}
	}
	enc, err := ianaindex.MIME.Encoding(n)
	if enc == nil || err != nil {
		enc, err = ianaindex.IANA.Encoding(n)
	}
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

// Decode decodes b with enc. If enc is nil, the Default encoding is used. Bytes that
// cannot be decoded are returned unchanged.
func Decode(enc encoding.Encoding, b []byte) string {
	if enc == nil {
		enc = Default
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
