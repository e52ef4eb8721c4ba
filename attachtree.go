// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"errors"
	"fmt"
)

// AttachmentErrorBehavior controls which attachment failures are replaced by placeholders.
// Each level includes the levels below it.
type AttachmentErrorBehavior int

const (
	// AttachErrorThrow fails the attachment tree on every attachment failure
	AttachErrorThrow AttachmentErrorBehavior = iota
	// AttachErrorUnsupported replaces attachments of unrecognized type by placeholders
	AttachErrorUnsupported
	// AttachErrorBroken also replaces attachments that could not be read by placeholders
	AttachErrorBroken
)

// String satisfies the fmt.Stringer interface for the AttachmentErrorBehavior type
func (b AttachmentErrorBehavior) String() string {
	switch b {
	case AttachErrorThrow:
		return "throw"
	case AttachErrorUnsupported:
		return "unsupported"
	case AttachErrorBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// ParseAttachmentErrorBehavior returns the AttachmentErrorBehavior for its string form
func ParseAttachmentErrorBehavior(s string) (AttachmentErrorBehavior, error) {
	for _, b := range []AttachmentErrorBehavior{AttachErrorThrow, AttachErrorUnsupported, AttachErrorBroken} {
		if b.String() == s {
			return b, nil
		}
	}
	return AttachErrorThrow, fmt.Errorf("unknown attachment error behavior %q", s)
}

// attachState tracks the construction of the attachment tree
type attachState int

const (
	// attachNotStarted is the state before the attachment tree was requested
	attachNotStarted attachState = iota
	// attachPending is the state while named properties are queued for the attachments
	attachPending
	// attachReady is the state once the attachment tree was built
	attachReady
)

// Attachments returns the attachments of the Message in storage order.
//
// Attachments that fail are replaced by placeholders as permitted by the
// AttachmentErrorBehavior, otherwise an *AttachmentError is returned. A failed tree is
// built again on the next call.
func (m *Message) Attachments() ([]*Attachment, error) {
	atts, _, err := m.attachments.getErr(m.resolveAttachments)
	return atts, err
}

// EachAttachment calls fn for every attachment of the Message and stops at the first error
func (m *Message) EachAttachment(fn func(*Attachment) error) error {
	atts, err := m.Attachments()
	if err != nil {
		return err
	}
	for _, a := range atts {
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

func (m *Message) resolveAttachments() ([]*Attachment, bool, error) {
	dirs := m.childStorages(attachMarker)
	atts := make([]*Attachment, 0, len(dirs))
	for _, dir := range dirs {
		a, err := m.config.attachFactory(m, dir)
		if err == nil && a == nil {
			err = fmt.Errorf("attachment factory returned no attachment")
		}
		if err == nil {
			atts = append(atts, a)
			continue
		}

		kind, reason := AttachmentBroken, ErrAttachBroken
		if errors.Is(err, ErrUnsupportedAttachment) {
			kind, reason = AttachmentUnsupported, ErrAttachUnsupported
		}
		if !m.allowsPlaceholder(kind) {
			closeAttachments(atts)
			return nil, false, &AttachmentError{Entry: dir, Reason: reason, err: err}
		}
		m.errorf(dir, "%s attachment replaced by placeholder: %s", kind, err)
		atts = append(atts, newPlaceholder(m, dir, kind, err))
	}

	m.attachState = attachReady
	for _, p := range m.pending {
		for _, a := range atts {
			a.RegisterNamedProperty(p)
		}
	}
	m.pending = nil
	return atts, true, nil
}

// allowsPlaceholder reports whether a failed attachment of kind k is replaced by a placeholder
func (m *Message) allowsPlaceholder(k AttachmentKind) bool {
	switch k {
	case AttachmentUnsupported:
		return m.config.attachErrBehav >= AttachErrorUnsupported
	case AttachmentBroken:
		return m.config.attachErrBehav >= AttachErrorBroken
	}
	return false
}

// closeAttachments closes the embedded messages of atts and ignores errors
func closeAttachments(atts []*Attachment) {
	for _, a := range atts {
		_ = a.Close()
	}
}
