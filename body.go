// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"strings"

	"github.com/wneessen/go-msgfile/mapi"
	"github.com/wneessen/go-msgfile/rtf"
)

const (
	// htmlOpen and htmlClose wrap an HTML body generated from the plain text body
	htmlOpen  = "<html><body>"
	htmlClose = "</body></html>"
	// htmlBreak replaces the line breaks of a plain text body
	htmlBreak = "<br>"
)

// Body returns the plain text body of the Message. If the body stream is missing or
// empty, the text de-encapsulated from the RTF body is used.
func (m *Message) Body() string {
	v, _ := m.body.get(func() (string, bool) {
		if body, ok := m.stringStream(pidBody); ok && body != "" {
			if strings.Contains(body, "\r\n") {
				m.crlf = "\r\n"
			}
			return body, true
		}
		if res := m.DeencapsulatedRTF(); res != nil && res.ContentType == rtf.ContentText {
			return res.Text, true
		}
		return "", false
	})
	return v
}

// CRLF returns the line ending used by the plain text body
func (m *Message) CRLF() string {
	m.Body()
	return m.crlf
}

// HTMLBody returns the HTML body of the Message. If the HTML stream is missing, the
// HTML de-encapsulated from the RTF body is used, or else the HTML is generated from
// the plain text body.
func (m *Message) HTMLBody() []byte {
	v, _ := m.htmlBody.get(func() ([]byte, bool) {
		if b, ok := m.readBinary(m.prefix, pidHTML); ok && len(b) > 0 {
			return b, true
		}
		if s, ok := m.stringStream(pidHTML); ok && s != "" {
			return []byte(s), true
		}

		if len(m.RTFBody()) > 0 {
			m.infof(m.entry(), "HTML body was not found, attempting to generate from RTF")
			if res := m.DeencapsulatedRTF(); res != nil && res.ContentType == rtf.ContentHTML {
				return []byte(res.HTML), true
			}
			m.infof(m.entry(), "could not deencapsulate HTML from RTF body")
		}

		if body := m.Body(); body != "" {
			m.infof(m.entry(), "HTML body was not found, generating from plain text body")
			body = strings.ReplaceAll(body, "\r", "")
			body = strings.ReplaceAll(body, "\n", htmlBreak)
			return []byte(htmlOpen + body + htmlClose), true
		}
		m.infof(m.entry(), "HTML body could not be found nor generated")
		return nil, false
	})
	return v
}

// CompressedRTF returns the compressed RTF body stream of the Message
func (m *Message) CompressedRTF() []byte {
	return m.bytesField(&m.compressedRTF, pidRTFCompressed)
}

// RTFBody returns the decompressed RTF body of the Message. A body that cannot be
// decompressed is logged and treated as missing.
func (m *Message) RTFBody() []byte {
	v, _ := m.rtfBody.get(func() ([]byte, bool) {
		compressed := m.CompressedRTF()
		if len(compressed) == 0 {
			return nil, false
		}
		body, err := m.config.decompressRTF(compressed)
		if err != nil {
			m.warnf(m.entry(), "failed to decompress RTF body %s: %s",
				streamName(pidRTFCompressed, mapi.TypeBinary), err)
			return nil, false
		}
		return body, len(body) > 0
	})
	return v
}
