// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/wneessen/go-msgfile/internal/codepage"
)

// lookupEncoding returns the encoding for the override encoding name
func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := codepage.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, err)
	}
	return enc, nil
}

// stringEncoding returns the encoding for 8-bit string streams of the Message: the
// override encoding, the code page of the message or Windows-1252.
func (m *Message) stringEncoding() encoding.Encoding {
	enc, _ := m.enc.get(func() (encoding.Encoding, bool) {
		for _, id := range []uint16{pidMessageCodepage, pidInternetCodepage} {
			cp, ok := m.MainProperties().Int32(id)
			if !ok {
				continue
			}
			if enc, ok := codepage.Lookup(int(cp)); ok {
				return enc, true
			}
			m.infof(m.entry(), "unknown code page %d, falling back to %s", cp, codepage.Default)
		}
		return codepage.Default, true
	})
	return enc
}

// decodeUnicode decodes a UTF-16LE string stream and trims trailing NULs
func decodeUnicode(b []byte) string {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

// decode8bit decodes an 8-bit string stream with enc and trims trailing NULs
func decode8bit(b []byte, enc encoding.Encoding) string {
	return strings.TrimRight(codepage.Decode(enc, b), "\x00")
}
