// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"fmt"
	"strings"

	"github.com/wneessen/go-msgfile/mapi"
)

const (
	// substgPrefix is the name prefix of every property stream
	substgPrefix = "__substg1.0_"
	// propertiesStream holds the fixed size properties of a storage
	propertiesStream = "__properties_version1.0"
	// recipMarker is the name prefix of recipient storages
	recipMarker = "__recip_version1.0_"
	// attachMarker is the name prefix of attachment storages
	attachMarker = "__attach_version1.0_"
	// nameIDStorage is the storage with the named property mapping
	nameIDStorage = "__nameid_version1.0"
)

// Property identifiers used by the resolvers
const (
	pidImportance        uint16 = 0x0017
	pidMessageClass      uint16 = 0x001A
	pidSubject           uint16 = 0x0037
	pidClientSubmitTime  uint16 = 0x0039
	pidTransportHeaders  uint16 = 0x007D
	pidRecipientType     uint16 = 0x0C15
	pidSenderName        uint16 = 0x0C1A
	pidDeliveryTime      uint16 = 0x0E06
	pidMessageFlags      uint16 = 0x0E07
	pidBody              uint16 = 0x1000
	pidRTFCompressed     uint16 = 0x1009
	pidHTML              uint16 = 0x1013
	pidInternetMessageID uint16 = 0x1035
	pidInReplyTo         uint16 = 0x1042
	pidDisplayName       uint16 = 0x3001
	pidEmailAddress      uint16 = 0x3003
	pidAttachData        uint16 = 0x3701
	pidAttachFilename    uint16 = 0x3704
	pidAttachMethod      uint16 = 0x3705
	pidAttachLongName    uint16 = 0x3707
	pidAttachMimeTag     uint16 = 0x370E
	pidAttachContentID   uint16 = 0x3712
	pidSMTPAddress       uint16 = 0x39FE
	pidInternetCodepage  uint16 = 0x3FDE
	pidMessageCodepage   uint16 = 0x3FFD
	pidSenderSMTPAddress uint16 = 0x5D01
)

// streamName returns the name of the stream of the property id with type t
func streamName(id uint16, t mapi.PropType) string {
	return fmt.Sprintf("%s%04X%04X", substgPrefix, id, uint16(t))
}

// readString reads the string property id from the storage dir. The Unicode variant
// is preferred over the 8-bit variant, which is decoded with the string encoding of
// the Message.
func (m *Message) readString(dir []string, id uint16) (string, bool) {
	if b, ok := m.container.Stream(joinPath(dir, streamName(id, mapi.TypeString))); ok {
		return decodeUnicode(b), true
	}
	if b, ok := m.container.Stream(joinPath(dir, streamName(id, mapi.TypeString8))); ok {
		return decode8bit(b, m.stringEncoding()), true
	}
	return "", false
}

// readBinary reads the binary property id from the storage dir
func (m *Message) readBinary(dir []string, id uint16) ([]byte, bool) {
	return m.container.Stream(joinPath(dir, streamName(id, mapi.TypeBinary)))
}

// stringStream reads the string property id of the Message
func (m *Message) stringStream(id uint16) (string, bool) {
	return m.readString(m.prefix, id)
}

// stringField resolves f from the string property id of the Message
func (m *Message) stringField(f *field[string], id uint16) string {
	v, _ := f.get(func() (string, bool) {
		return m.stringStream(id)
	})
	return v
}

// bytesField resolves f from the binary property id of the Message
func (m *Message) bytesField(f *field[[]byte], id uint16) []byte {
	v, _ := f.get(func() ([]byte, bool) {
		return m.readBinary(m.prefix, id)
	})
	return v
}

// childStorages returns the names of the storages directly below the Message whose
// name starts with marker, deduplicated and in listing order
func (m *Message) childStorages(marker string) []string {
	var names []string
	seen := make(map[string]struct{})
	depth := len(m.prefix)
	for _, p := range m.container.ListEntries(false, true) {
		if len(p) <= depth || !hasPathPrefix(p, m.prefix) {
			continue
		}
		name := p[depth]
		if !strings.HasPrefix(name, marker) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// hasStorage reports whether the container holds a storage at path
func (m *Message) hasStorage(path []string) bool {
	for _, p := range m.container.ListEntries(false, true) {
		if len(p) == len(path) && hasPathPrefix(p, path) {
			return true
		}
	}
	return false
}

// streamsWithID returns the names of the streams directly in dir that hold property id
func (m *Message) streamsWithID(dir []string, id uint16) []string {
	prefix := fmt.Sprintf("%s%04X", substgPrefix, id)
	var names []string
	for _, p := range m.container.ListEntries(false, false) {
		if len(p) != len(dir)+1 || !hasPathPrefix(p, dir) {
			continue
		}
		if name := p[len(dir)]; strings.HasPrefix(name, prefix) && len(name) == len(prefix)+4 {
			names = append(names, name)
		}
	}
	return names
}
