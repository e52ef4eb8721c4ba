// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"strings"
)

// To returns the address line of the primary recipients
func (m *Message) To() string {
	return m.resolveAddress(RecipientTo, HeaderTo)
}

// Cc returns the address line of the carbon copy recipients
func (m *Message) Cc() string {
	return m.resolveAddress(RecipientCc, HeaderCc)
}

// Bcc returns the address line of the blind carbon copy recipients
func (m *Message) Bcc() string {
	return m.resolveAddress(RecipientBcc, HeaderBcc)
}

// resolveAddress resolves the address line for role. The header field h is used if a
// header was read from the MSG file and holds a value, otherwise the line is built
// from the recipients with that role.
func (m *Message) resolveAddress(role RecipientType, h AddrHeader) string {
	v, _ := m.addresses[role].get(func() (string, bool) {
		var value string
		fromHeader := m.HeaderInitialized()
		if fromHeader {
			hdr := m.Header()
			value = hdr.Get(h.String())
			value = strings.ReplaceAll(value, ",", m.config.recipSeparator)
		}
		if value == "" {
			if fromHeader {
				m.infof(m.entry(), "header found, but %q is not included, will resolve from recipients", h)
			}
			var found []string
			for _, r := range m.Recipients() {
				if r.Type().Role() == role {
					found = append(found, r.Formatted())
				}
			}
			value = strings.Join(found, m.config.recipSeparator+" ")
		}
		value = normalizeAddressLine(value)
		return value, value != ""
	})
	return v
}

// normalizeAddressLine replaces the line breaks "\r\n\t", "\r\n", "\r" and "\n" with a
// single space each and collapses runs of spaces into one
func normalizeAddressLine(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
				if i+1 < len(s) && s[i+1] == '\t' {
					i++
				}
			}
			c = ' '
		case '\n':
			c = ' '
		}
		if c == ' ' {
			if space {
				continue
			}
			space = true
		} else {
			space = false
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
