// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"github.com/wneessen/go-msgfile/mapi"
)

// RecipientType is the raw recipient type bitmask stored for a Recipient
type RecipientType int32

const (
	// RecipientTo is the role of a primary recipient
	RecipientTo RecipientType = 1
	// RecipientCc is the role of a carbon copy recipient
	RecipientCc RecipientType = 2
	// RecipientBcc is the role of a blind carbon copy recipient
	RecipientBcc RecipientType = 3
)

// recipRoleMask selects the role bits of a RecipientType
const recipRoleMask RecipientType = 0x0000000f

// Role returns the role part of the RecipientType
func (r RecipientType) Role() RecipientType {
	return r & recipRoleMask
}

// String satisfies the fmt.Stringer interface for the RecipientType type
func (r RecipientType) String() string {
	switch r.Role() {
	case RecipientTo:
		return "to"
	case RecipientCc:
		return "cc"
	case RecipientBcc:
		return "bcc"
	default:
		return "unknown"
	}
}

// Recipient is a recipient stored in a recipient storage of a Message
type Recipient struct {
	dir       string
	email     string
	formatted string
	msg       *Message
	name      string
	rtype     RecipientType
}

// newRecipient reads the recipient stored in the storage dir of the Message m
func newRecipient(m *Message, dir string) *Recipient {
	path := joinPath(m.prefix, dir)
	r := &Recipient{dir: dir, msg: m}
	props := m.readProperties(path, mapi.HeaderStorage)
	if t, ok := props.Int32(pidRecipientType); ok {
		r.rtype = RecipientType(t)
	}
	r.name, _ = m.readString(path, pidDisplayName)
	if email, ok := m.readString(path, pidSMTPAddress); ok && email != "" {
		r.email = email
	} else {
		r.email, _ = m.readString(path, pidEmailAddress)
	}

	switch {
	case r.name != "" && r.email != "":
		r.formatted = r.name + " <" + r.email + ">"
	case r.email != "":
		r.formatted = r.email
	default:
		r.formatted = r.name
	}
	return r
}

// Dir returns the name of the storage of the Recipient
func (r *Recipient) Dir() string {
	return r.dir
}

// Email returns the SMTP address of the Recipient or, if missing, its email address
func (r *Recipient) Email() string {
	return r.email
}

// Formatted returns the display form of the Recipient: "name <email>", the name only
// or the email only
func (r *Recipient) Formatted() string {
	return r.formatted
}

// Message returns the Message the Recipient belongs to
func (r *Recipient) Message() *Message {
	return r.msg
}

// Name returns the display name of the Recipient
func (r *Recipient) Name() string {
	return r.name
}

// Type returns the raw RecipientType of the Recipient
func (r *Recipient) Type() RecipientType {
	return r.rtype
}

// String satisfies the fmt.Stringer interface for the Recipient type
func (r *Recipient) String() string {
	return r.formatted
}

// Recipients returns the recipients of the Message in storage order
func (m *Message) Recipients() []*Recipient {
	rcpts, _ := m.recipients.get(func() ([]*Recipient, bool) {
		dirs := m.childStorages(recipMarker)
		rcpts := make([]*Recipient, 0, len(dirs))
		for _, dir := range dirs {
			rcpts = append(rcpts, newRecipient(m, dir))
		}
		return rcpts, true
	})
	return rcpts
}
