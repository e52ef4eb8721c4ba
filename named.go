// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/wneessen/go-msgfile/mapi"
)

// Property sets with a fixed GUID index in the named property mapping
const (
	GUIDPSMAPI          = "{00020328-0000-0000-C000-000000000046}"
	GUIDPSPublicStrings = "{00020329-0000-0000-C000-000000000046}"
)

// namedIDBase is the property id of the first named property
const namedIDBase = 0x8000

// Streams of the named property mapping
var (
	nameIDGUIDStream   = streamName(0x0002, mapi.TypeBinary)
	nameIDEntryStream  = streamName(0x0003, mapi.TypeBinary)
	nameIDStringStream = streamName(0x0004, mapi.TypeBinary)
)

// NamedKind is the kind of name of a NamedProperty
type NamedKind int

const (
	// NamedID is a property named by a numeric identifier
	NamedID NamedKind = iota
	// NamedString is a property named by a string
	NamedString
)

// NamedProperty maps a property name of a property set onto the property id it is
// stored under
type NamedProperty struct {
	// ID is the property id the named property is stored under
	ID uint16
	// Kind is the kind of the name
	Kind NamedKind
	// LID is the numeric identifier of a NamedID property
	LID uint32
	// Name is the string name, or for NamedID properties the LID as "0x" hex string
	Name string
	// GUID is the property set in registry format
	GUID string
	// Type is the property type, or 0 if it is unknown
	Type mapi.PropType
}

// Key returns the property set and the name of the NamedProperty
func (p NamedProperty) Key() string {
	return p.GUID + "/" + p.Name
}

// NamedProperties is the table of the named properties registered on a Message or
// an Attachment
type NamedProperties struct {
	byName map[string]string
	order  []string
	props  map[string]NamedProperty
}

func newNamedProperties() *NamedProperties {
	return &NamedProperties{
		byName: make(map[string]string),
		props:  make(map[string]NamedProperty),
	}
}

// register adds p to the table. A property with the same key is replaced.
func (n *NamedProperties) register(p NamedProperty) {
	key := p.Key()
	if _, ok := n.props[key]; !ok {
		n.order = append(n.order, key)
	}
	n.props[key] = p
	n.byName[p.Name] = key
}

// Get returns the NamedProperty registered last with the given name
func (n *NamedProperties) Get(name string) (NamedProperty, bool) {
	if n == nil {
		return NamedProperty{}, false
	}
	key, ok := n.byName[name]
	if !ok {
		return NamedProperty{}, false
	}
	return n.props[key], true
}

// GetByKey returns the NamedProperty with the given name in the property set guid
func (n *NamedProperties) GetByKey(guid, name string) (NamedProperty, bool) {
	if n == nil {
		return NamedProperty{}, false
	}
	p, ok := n.props[guid+"/"+name]
	return p, ok
}

// All returns the registered named properties in registration order
func (n *NamedProperties) All() []NamedProperty {
	if n == nil {
		return nil
	}
	all := make([]NamedProperty, 0, len(n.order))
	for _, key := range n.order {
		all = append(all, n.props[key])
	}
	return all
}

// Len returns the number of registered named properties
func (n *NamedProperties) Len() int {
	if n == nil {
		return 0
	}
	return len(n.order)
}

// RegisterNamedProperty registers p on the Message and its attachments. While the
// attachment tree is not built, p is queued and registered on the regular attachments
// once the tree is ready.
func (m *Message) RegisterNamedProperty(p NamedProperty) {
	if m.attachState != attachReady {
		m.pending = append(m.pending, p)
		m.attachState = attachPending
	} else if atts, ok := m.attachments.peek(); ok {
		for _, a := range atts {
			a.RegisterNamedProperty(p)
		}
	}
	m.named.register(p)
}

// Named returns the named properties of the Message. On first access the named
// property mapping of the MSG file is read and every entry registered.
func (m *Message) Named() *NamedProperties {
	if !m.namedLoaded {
		m.namedLoaded = true
		for _, p := range m.discoverNamed() {
			m.RegisterNamedProperty(p)
		}
	}
	return m.named
}

// NamedValue returns the raw value of the named property with the given name. Values
// of variable length types are the content of their stream, fixed length values the
// 8 value bytes of the property table.
func (m *Message) NamedValue(name string) ([]byte, bool) {
	p, ok := m.Named().Get(name)
	if !ok {
		return nil, false
	}
	return m.namedValue(m.prefix, m.MainProperties(), p)
}

// RegisterNamedProperty registers p on the Attachment. Placeholders ignore it.
func (a *Attachment) RegisterNamedProperty(p NamedProperty) {
	if a.named == nil {
		return
	}
	a.named.register(p)
}

// Named returns the named properties registered on the Attachment
func (a *Attachment) Named() *NamedProperties {
	return a.named
}

// NamedValue returns the raw value of the named property with the given name
func (a *Attachment) NamedValue(name string) ([]byte, bool) {
	p, ok := a.named.Get(name)
	if !ok {
		return nil, false
	}
	return a.msg.namedValue(joinPath(a.msg.prefix, a.dir), a.Properties(), p)
}

// namedValue reads the value of p from the storage dir with the property table props
func (m *Message) namedValue(dir []string, props *mapi.Table, p NamedProperty) ([]byte, bool) {
	if p.Type != 0 && p.Type.IsVariable() {
		if b, ok := m.container.Stream(joinPath(dir, streamName(p.ID, p.Type))); ok {
			return b, true
		}
	}
	if prop, ok := props.Find(p.ID); ok && !prop.Tag.Type().IsVariable() {
		v := prop.Value
		return v[:], true
	}
	for _, name := range m.streamsWithID(dir, p.ID) {
		if b, ok := m.container.Stream(joinPath(dir, name)); ok {
			return b, true
		}
	}
	return nil, false
}

// discoverNamed reads the named property mapping. The mapping is always stored in the
// root storage, embedded messages share it with the top level message.
func (m *Message) discoverNamed() []NamedProperty {
	entries, ok := m.container.Stream([]string{nameIDStorage, nameIDEntryStream})
	if !ok {
		return nil
	}
	guids, _ := m.container.Stream([]string{nameIDStorage, nameIDGUIDStream})
	names, _ := m.container.Stream([]string{nameIDStorage, nameIDStringStream})

	var props []NamedProperty
	for i := 0; i+8 <= len(entries); i += 8 {
		nameOrOffset := binary.LittleEndian.Uint32(entries[i:])
		indexAndKind := binary.LittleEndian.Uint32(entries[i+4:])
		p := NamedProperty{
			ID:   namedIDBase + uint16(indexAndKind>>16),
			GUID: namedGUID(guids, uint16(indexAndKind>>1)&0x7FFF),
		}
		if indexAndKind&1 == 1 {
			name, ok := namedString(names, nameOrOffset)
			if !ok {
				m.warnf(nameIDStorage, "named property %04X has an invalid string offset %d", p.ID, nameOrOffset)
				continue
			}
			p.Kind, p.Name = NamedString, name
		} else {
			p.Kind, p.LID, p.Name = NamedID, nameOrOffset, fmt.Sprintf("0x%04X", nameOrOffset)
		}
		p.Type = m.namedType(p.ID)
		props = append(props, p)
	}
	return props
}

// namedType returns the type the property id is stored with in the Message, or 0
func (m *Message) namedType(id uint16) mapi.PropType {
	if prop, ok := m.MainProperties().Find(id); ok {
		return prop.Tag.Type()
	}
	for _, name := range m.streamsWithID(m.prefix, id) {
		t, err := strconv.ParseUint(name[len(name)-4:], 16, 16)
		if err == nil {
			return mapi.PropType(t)
		}
	}
	return 0
}

// namedGUID returns the property set of a GUID index of the named property mapping
func namedGUID(guids []byte, index uint16) string {
	switch index {
	case 1:
		return GUIDPSMAPI
	case 2:
		return GUIDPSPublicStrings
	}
	if index < 3 {
		return ""
	}
	off := int(index-3) * 16
	if off+16 > len(guids) {
		return ""
	}
	return formatGUID(guids[off : off+16])
}

// formatGUID returns a 16 byte GUID in registry format
func formatGUID(b []byte) string {
	return fmt.Sprintf("{%08X-%04X-%04X-%X-%X}", binary.LittleEndian.Uint32(b),
		binary.LittleEndian.Uint16(b[4:]), binary.LittleEndian.Uint16(b[6:]), b[8:10], b[10:16])
}

// namedString returns the name stored at offset of the string stream
func namedString(names []byte, offset uint32) (string, bool) {
	off := int(offset)
	if off < 0 || off+4 > len(names) {
		return "", false
	}
	l := int(binary.LittleEndian.Uint32(names[off:]))
	if l < 0 || off+4+l > len(names) {
		return "", false
	}
	return decodeUnicode(names[off+4 : off+4+l]), true
}
