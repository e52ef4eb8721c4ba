// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"bufio"
	"fmt"
	nettextproto "net/textproto"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
)

// Header returns the header of the Message. The transport header stored in the MSG
// file is used if it can be parsed, its "Date" field replaced by the resolved date.
// Otherwise a header is synthesized from the other resolvers.
func (m *Message) Header() mail.Header {
	h, _ := m.header.get(m.resolveHeader)
	return h
}

// HeaderInitialized reports whether the header of the Message was read from the
// transport header stored in the MSG file
func (m *Message) HeaderInitialized() bool {
	if !m.header.initialized() && !m.headerBusy {
		m.Header()
	}
	return m.headerFromStream
}

// HeaderMap returns the fields of the header as a map, without "Received" fields. For
// repeated fields the topmost value is used.
func (m *Message) HeaderMap() map[string]string {
	hm, _ := m.headerMap.get(func() (map[string]string, bool) {
		h := m.Header()
		hm := make(map[string]string)
		fields := h.Fields()
		for fields.Next() {
			key := nettextproto.CanonicalMIMEHeaderKey(fields.Key())
			if key == HeaderReceived.String() {
				continue
			}
			if _, ok := hm[key]; ok {
				continue
			}
			hm[key] = h.Get(key)
		}
		return hm, true
	})
	return hm
}

func (m *Message) resolveHeader() (mail.Header, bool) {
	m.headerBusy = true
	defer func() { m.headerBusy = false }()

	if raw, ok := m.stringStream(pidTransportHeaders); ok && strings.TrimSpace(raw) != "" {
		h, rest, err := parseHeader(raw)
		if err == nil {
			if rest != "" {
				m.infof(m.entry(), "header contains a line that is not a header field, ignoring %q and "+
					"the lines following it", rest)
			}
			m.headerFromStream = true
			if date := m.Date(); date != "" {
				h.Set(HeaderDate.String(), date)
			}
			return h, true
		}
		m.warnf(m.entry(), "%s, header will be generated from other streams", err)
	} else {
		m.infof(m.entry(), "header is empty or was not found, header will be generated from other streams")
	}

	var h mail.Header
	h.Add(HeaderDate.String(), m.Date())
	h.Add(HeaderFrom.String(), m.Sender())
	h.Add(HeaderTo.String(), m.To())
	h.Add(HeaderCc.String(), m.Cc())
	h.Add(HeaderBcc.String(), m.Bcc())
	h.Add(HeaderMessageID.String(), m.MessageID())
	// no property of a MSG file holds the authentication results
	h.Add(HeaderAuthenticationResults.String(), "")
	return h, true
}

// parseHeader parses a transport header. Leading lines that are not header fields,
// like the "Microsoft Mail Internet Headers Version 2.0" banner, are skipped. The
// header ends at the first line that neither starts nor continues a field; that
// line is returned as rest.
func parseHeader(raw string) (h mail.Header, rest string, err error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(raw, "\n\x00 \t"), "\n")
	for len(lines) > 0 && !isFieldLine(lines[0]) {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return h, "", fmt.Errorf("failed to parse header: no header fields found")
	}
	for i, line := range lines {
		if line == "" {
			lines = lines[:i]
			break
		}
		if !isFieldLine(line) && !isContinuationLine(line) {
			rest = line
			lines = lines[:i]
			break
		}
	}
	text := strings.Join(lines, "\r\n") + "\r\n\r\n"
	th, err := textproto.ReadHeader(bufio.NewReader(strings.NewReader(text)))
	if err != nil {
		return h, "", fmt.Errorf("failed to parse header: %w", err)
	}
	return mail.Header{Header: message.Header{Header: th}}, rest, nil
}

// isFieldLine reports whether line starts a header field
func isFieldLine(line string) bool {
	i := strings.IndexByte(line, ':')
	if i <= 0 {
		return false
	}
	return !strings.ContainsAny(line[:i], " \t")
}

// isContinuationLine reports whether line continues a folded header field
func isContinuationLine(line string) bool {
	return line[0] == ' ' || line[0] == '\t'
}
