// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"fmt"
	"strings"

	"github.com/wneessen/go-msgfile/mapi"
)

// AttachmentKind is the variant of an Attachment
type AttachmentKind int

const (
	// AttachmentRegular is an attachment that was read successfully
	AttachmentRegular AttachmentKind = iota
	// AttachmentUnsupported is a placeholder for an attachment of an unrecognized type
	AttachmentUnsupported
	// AttachmentBroken is a placeholder for an attachment that could not be read
	AttachmentBroken
)

// String satisfies the fmt.Stringer interface for the AttachmentKind type
func (k AttachmentKind) String() string {
	switch k {
	case AttachmentRegular:
		return "regular"
	case AttachmentUnsupported:
		return "unsupported"
	case AttachmentBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// AttachmentType is the content type of a regular Attachment
type AttachmentType string

const (
	// AttachmentTypeData is an attachment that holds raw data
	AttachmentTypeData AttachmentType = "data"
	// AttachmentTypeMsg is an attachment that holds an embedded message
	AttachmentTypeMsg AttachmentType = "msg"
)

// attachMethodOLE is the attach method of OLE objects
const attachMethodOLE = 6

// embeddedStorage is the storage name of an embedded message
var embeddedStorage = streamName(pidAttachData, mapi.TypeObject)

// supportedClasses are the message class prefixes of embedded messages that can be read
var supportedClasses = []string{"IPM.Note", "IPM.Post", "IPM.Schedule.Meeting", "REPORT.IPM.Note"}

// Attachment is an attachment of a Message. Placeholders for attachments that could
// not be read carry the cause in Err and neither data nor a content-id.
type Attachment struct {
	atype     AttachmentType
	contentID string
	data      []byte
	dir       string
	embedded  *Message
	err       error
	kind      AttachmentKind
	longName  string
	method    int32
	mimeType  string
	msg       *Message
	name      string
	named     *NamedProperties
	props     *mapi.Table
}

// NewAttachment is the default AttachmentFactory. It reads the attachment stored in the
// storage dir of the Message m, which is either a data attachment or an embedded
// message.
func NewAttachment(m *Message, dir string) (*Attachment, error) {
	path := joinPath(m.prefix, dir)
	a := &Attachment{
		dir:   dir,
		kind:  AttachmentRegular,
		msg:   m,
		named: newNamedProperties(),
		props: m.readProperties(path, mapi.HeaderStorage),
	}
	a.method, _ = a.props.Int32(pidAttachMethod)
	a.contentID, _ = m.readString(path, pidAttachContentID)
	a.longName, _ = m.readString(path, pidAttachLongName)
	a.name, _ = m.readString(path, pidAttachFilename)
	if a.longName == "" && a.name == "" {
		a.name, _ = m.readString(path, pidDisplayName)
	}
	a.mimeType, _ = m.readString(path, pidAttachMimeTag)

	subPath := joinPath(path, embeddedStorage)
	if m.hasStorage(subPath) {
		if a.method == attachMethodOLE {
			return nil, fmt.Errorf("%w: OLE object", ErrUnsupportedAttachment)
		}
		class, _ := m.readString(subPath, pidMessageClass)
		if !isSupportedClass(class) {
			return nil, fmt.Errorf("%w: embedded message of class %q", ErrUnsupportedAttachment, class)
		}
		sub, err := newEmbedded(m, subPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded message: %w", err)
		}
		a.atype = AttachmentTypeMsg
		a.embedded = sub
		return a, nil
	}

	data, ok := m.readBinary(path, pidAttachData)
	if !ok {
		return nil, ErrNoAttachmentData
	}
	a.atype = AttachmentTypeData
	a.data = data
	return a, nil
}

// newPlaceholder returns a placeholder of kind k for the attachment in the storage dir
func newPlaceholder(m *Message, dir string, k AttachmentKind, err error) *Attachment {
	return &Attachment{dir: dir, err: err, kind: k, msg: m}
}

// isSupportedClass reports whether an embedded message of the message class can be read
func isSupportedClass(class string) bool {
	if class == "" {
		return true
	}
	for _, prefix := range supportedClasses {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}

// Kind returns the variant of the Attachment
func (a *Attachment) Kind() AttachmentKind {
	return a.kind
}

// Type returns the content type of a regular Attachment or an empty string for placeholders
func (a *Attachment) Type() AttachmentType {
	return a.atype
}

// Dir returns the name of the storage of the Attachment
func (a *Attachment) Dir() string {
	return a.dir
}

// Err returns the cause for placeholders and nil for regular attachments
func (a *Attachment) Err() error {
	return a.err
}

// ContentID returns the content-id of the Attachment
func (a *Attachment) ContentID() string {
	return a.contentID
}

// Data returns the raw data of a data Attachment
func (a *Attachment) Data() []byte {
	return a.data
}

// Embedded returns the embedded message of a msg Attachment
func (a *Attachment) Embedded() *Message {
	return a.embedded
}

// Message returns the Message the Attachment belongs to
func (a *Attachment) Message() *Message {
	return a.msg
}

// Filename returns the long filename of the Attachment, or the short one if missing
func (a *Attachment) Filename() string {
	if a.longName != "" {
		return a.longName
	}
	return a.name
}

// MimeType returns the MIME type stored for the Attachment
func (a *Attachment) MimeType() string {
	return a.mimeType
}

// Method returns the attach method of the Attachment
func (a *Attachment) Method() int32 {
	return a.method
}

// Properties returns the property table of the Attachment. Placeholders have an empty table.
func (a *Attachment) Properties() *mapi.Table {
	if a.props == nil {
		return mapi.Empty()
	}
	return a.props
}

// Close closes the embedded message of the Attachment
func (a *Attachment) Close() error {
	if a.embedded == nil {
		return nil
	}
	return a.embedded.Close()
}

// String satisfies the fmt.Stringer interface for the Attachment type
func (a *Attachment) String() string {
	if a.kind != AttachmentRegular {
		return fmt.Sprintf("%s attachment %s", a.kind, a.dir)
	}
	return fmt.Sprintf("%s attachment %s %q", a.atype, a.dir, a.Filename())
}
