// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"errors"

	"github.com/wneessen/go-msgfile/rtf"
)

// DeencapsulatedRTF returns the HTML or plain text encapsulated in the RTF body of the
// Message, or nil if there is none. Failures are logged and result in nil.
func (m *Message) DeencapsulatedRTF() *rtf.Result {
	v, _ := m.deencapsulated.get(func() (*rtf.Result, bool) {
		body := m.RTFBody()
		if len(body) == 0 {
			return nil, false
		}
		res, err := m.config.deencapsulateRTF(body)
		switch {
		case err == nil:
		case errors.Is(err, rtf.ErrNotEncapsulated):
			m.debugf(m.entry(), "RTF body is not encapsulated: %s", err)
			return nil, false
		case errors.Is(err, rtf.ErrMalformed):
			m.infof(m.entry(), "RTF body contains malformed data: %s", err)
			return nil, false
		default:
			m.warnf(m.entry(), "failed to deencapsulate RTF body: %s", err)
			return nil, false
		}
		return res, res != nil
	})
	return v
}
