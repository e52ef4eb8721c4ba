// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// folderDateLayout is the date layout of a default folder name
	folderDateLayout = "01-02-06_1504"
	// folderUnknownDate replaces the date of a default folder name if there is none
	folderUnknownDate = "UnknownDate"
	// folderNoSubject replaces the subject of a default folder name if there is none
	folderNoSubject = "[No subject]"
	// msgFlagRead is the read bit of the message flags
	msgFlagRead = 0x00000001
)

// folderNameReplacer removes the characters that are not allowed in folder names
var folderNameReplacer = strings.NewReplacer(`\`, "", "/", "", ":", "", "*", "", "?", "",
	`"`, "", "<", "", ">", "", "|", "", "\x00", "")

// Sender returns the sender of the Message. The "From" field of the header is used if a
// header was read from the MSG file and holds it, otherwise the sender name and SMTP
// address of the Message.
func (m *Message) Sender() string {
	v, _ := m.sender.get(func() (string, bool) {
		if m.HeaderInitialized() {
			h := m.Header()
			if h.Has(HeaderFrom.String()) {
				return h.Get(HeaderFrom.String()), true
			}
			m.infof(m.entry(), "header found, but %q is not included, will resolve from other streams", HeaderFrom)
		}
		name, nameOK := m.stringStream(pidSenderName)
		email, emailOK := m.stringStream(pidSenderSMTPAddress)
		switch {
		case !nameOK && !emailOK:
			return "", false
		case !nameOK:
			return email, true
		case !emailOK:
			return name, true
		}
		return name + " <" + email + ">", true
	})
	return v
}

// MessageID returns the message id of the Message
func (m *Message) MessageID() string {
	v, _ := m.messageID.get(func() (string, bool) {
		if m.HeaderInitialized() {
			h := m.Header()
			if h.Has(HeaderMessageID.String()) {
				return h.Get(HeaderMessageID.String()), true
			}
			m.infof(m.entry(), "header found, but %q is not included, will resolve from other streams", HeaderMessageID)
		}
		return m.stringStream(pidInternetMessageID)
	})
	return v
}

// Subject returns the subject of the Message
func (m *Message) Subject() string {
	return m.stringField(&m.subject, pidSubject)
}

// InReplyTo returns the message id the Message replies to
func (m *Message) InReplyTo() string {
	return m.stringField(&m.inReplyTo, pidInReplyTo)
}

// Date returns the submit time of the Message, or if missing its delivery time, as
// RFC 1123 date with numeric zone
func (m *Message) Date() string {
	v, _ := m.date.get(func() (string, bool) {
		for _, id := range []uint16{pidClientSubmitTime, pidDeliveryTime} {
			if t, ok := m.MainProperties().Time(id); ok {
				return t.Format(time.RFC1123Z), true
			}
		}
		return "", false
	})
	return v
}

// ParsedDate returns the Date of the Message as time.Time
func (m *Message) ParsedDate() (time.Time, bool) {
	date := m.Date()
	if date == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(date)
	if err != nil {
		m.debugf(m.entry(), "failed to parse date %q: %s", date, err)
		return time.Time{}, false
	}
	return t, true
}

// IsRead reports whether the read flag of the Message is set
func (m *Message) IsRead() bool {
	flags, ok := m.MainProperties().Int32(pidMessageFlags)
	return ok && flags&msgFlagRead != 0
}

// Importance returns the importance of the Message. A Message without importance
// property has ImportanceNormal.
func (m *Message) Importance() Importance {
	imp, ok := m.MainProperties().Int32(pidImportance)
	if !ok {
		return ImportanceNormal
	}
	return Importance(imp)
}

// MessageClass returns the message class of the Message, like "IPM.Note"
func (m *Message) MessageClass() string {
	class, _ := m.stringStream(pidMessageClass)
	return class
}

// DefaultFolderName returns a name for a folder the Message can be saved into. It
// consists of the date as "MM-DD-YY_HHmm" and the subject without the characters that
// are not allowed in file names.
func (m *Message) DefaultFolderName() string {
	var sb strings.Builder
	if t, ok := m.ParsedDate(); ok {
		sb.WriteString(t.Format(folderDateLayout))
	} else {
		sb.WriteString(folderUnknownDate)
	}
	sb.WriteByte(' ')
	if subject := m.Subject(); subject != "" {
		sb.WriteString(folderNameReplacer.Replace(subject))
	} else {
		sb.WriteString(folderNoSubject)
	}
	return sb.String()
}
