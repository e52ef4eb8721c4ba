// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

// Package mapi parses the fixed-length MAPI property table that is stored in the
// "__properties_version1.0" stream of every storage of an Outlook MSG file.
//
// Reference: https://learn.microsoft.com/en-us/openspecs/exchange_server_protocols/ms-oxmsg
package mapi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// PropType is a type wrapper for a uint16 and represents the type part of a MAPI property tag.
type PropType uint16

// Tag is a type wrapper for a uint32 and represents a MAPI property tag. The upper 16 bits
// hold the property ID, the lower 16 bits the PropType.
type Tag uint32

const (
	// TypeInt16 is a 2-byte signed integer (PtypInteger16).
	TypeInt16 PropType = 0x0002
	// TypeInt32 is a 4-byte signed integer (PtypInteger32).
	TypeInt32 PropType = 0x0003
	// TypeFloat32 is a 4-byte floating point value (PtypFloating32).
	TypeFloat32 PropType = 0x0004
	// TypeFloat64 is an 8-byte floating point value (PtypFloating64).
	TypeFloat64 PropType = 0x0005
	// TypeCurrency is an 8-byte currency value (PtypCurrency).
	TypeCurrency PropType = 0x0006
	// TypeAppTime is an 8-byte application time value (PtypFloatingTime).
	TypeAppTime PropType = 0x0007
	// TypeError is a 4-byte error code (PtypErrorCode).
	TypeError PropType = 0x000A
	// TypeBool is a boolean value (PtypBoolean).
	TypeBool PropType = 0x000B
	// TypeObject is an embedded object or storage (PtypObject).
	TypeObject PropType = 0x000D
	// TypeInt64 is an 8-byte signed integer (PtypInteger64).
	TypeInt64 PropType = 0x0014
	// TypeString8 is an 8-bit string in the code page of the message (PtypString8).
	TypeString8 PropType = 0x001E
	// TypeString is a UTF-16LE string (PtypString).
	TypeString PropType = 0x001F
	// TypeTime is a FILETIME value (PtypTime).
	TypeTime PropType = 0x0040
	// TypeGUID is a 16-byte GUID (PtypGuid).
	TypeGUID PropType = 0x0048
	// TypeBinary is a variable length byte sequence (PtypBinary).
	TypeBinary PropType = 0x0102
)

// Header lengths of the property stream, depending on the storage that holds it.
const (
	// HeaderTopLevel is the header length of the property stream of the top-level message.
	HeaderTopLevel = 32
	// HeaderEmbedded is the header length of the property stream of an embedded message.
	HeaderEmbedded = 24
	// HeaderStorage is the header length of the property stream of attachment and
	// recipient storages.
	HeaderStorage = 8
)

// entryLen is the length of a single fixed-length property entry
const entryLen = 16

// filetimeEpochDelta is the number of 100ns intervals between 1601-01-01 and 1970-01-01
const filetimeEpochDelta = 116444736000000000

var (
	// ErrShortTable is returned if the property stream is shorter than its header
	ErrShortTable = errors.New("property stream is shorter than its header")

	// ErrTypeMismatch is returned if a typed accessor is used on a property of a different type
	ErrTypeMismatch = errors.New("property type mismatch")
)

// NewTag returns the Tag for the given property ID and PropType.
func NewTag(id uint16, t PropType) Tag {
	return Tag(uint32(id)<<16 | uint32(t))
}

// ID returns the property ID of the Tag.
func (t Tag) ID() uint16 {
	return uint16(t >> 16)
}

// Type returns the PropType of the Tag.
func (t Tag) Type() PropType {
	return PropType(t & 0xFFFF)
}

// String satisfies the fmt.Stringer interface for the Tag type and returns the tag in
// the 8-digit hex notation that is used for stream names (e.g. "0E070003").
func (t Tag) String() string {
	return fmt.Sprintf("%08X", uint32(t))
}

// String satisfies the fmt.Stringer interface for the PropType type and returns the
// 4-digit hex notation of the type.
func (p PropType) String() string {
	return fmt.Sprintf("%04X", uint16(p))
}

// IsVariable reports whether values of this PropType are stored in their own stream
// instead of inside the property table.
func (p PropType) IsVariable() bool {
	switch p {
	case TypeObject, TypeString8, TypeString, TypeGUID, TypeBinary:
		return true
	}
	return p&0x1000 != 0
}

// Property is a single entry of the property table.
//
// For fixed-length types Value holds the value itself. For variable length types it
// holds the size of the value stream in the first 4 bytes.
type Property struct {
	Tag   Tag
	Flags uint32
	Value [8]byte
}

// Int32 returns the value of a TypeInt16, TypeInt32 or TypeError property.
func (p Property) Int32() (int32, error) {
	switch p.Tag.Type() {
	case TypeInt32, TypeError:
		return int32(binary.LittleEndian.Uint32(p.Value[:4])), nil
	case TypeInt16:
		return int32(int16(binary.LittleEndian.Uint16(p.Value[:2]))), nil
	}
	return 0, fmt.Errorf("%w: %s is not an integer", ErrTypeMismatch, p.Tag)
}

// Int64 returns the value of a TypeInt64 or TypeCurrency property.
func (p Property) Int64() (int64, error) {
	switch p.Tag.Type() {
	case TypeInt64, TypeCurrency:
		return int64(binary.LittleEndian.Uint64(p.Value[:])), nil
	}
	return 0, fmt.Errorf("%w: %s is not a 64 bit integer", ErrTypeMismatch, p.Tag)
}

// Bool returns the value of a TypeBool property.
func (p Property) Bool() (bool, error) {
	if p.Tag.Type() != TypeBool {
		return false, fmt.Errorf("%w: %s is not a boolean", ErrTypeMismatch, p.Tag)
	}
	return p.Value[0] != 0, nil
}

// Float64 returns the value of a TypeFloat64, TypeAppTime or TypeFloat32 property.
func (p Property) Float64() (float64, error) {
	switch p.Tag.Type() {
	case TypeFloat64, TypeAppTime:
		return math.Float64frombits(binary.LittleEndian.Uint64(p.Value[:])), nil
	case TypeFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p.Value[:4]))), nil
	}
	return 0, fmt.Errorf("%w: %s is not a floating point value", ErrTypeMismatch, p.Tag)
}

// Time returns the value of a TypeTime property in UTC. A FILETIME of zero is
// returned as the zero time.Time.
func (p Property) Time() (time.Time, error) {
	if p.Tag.Type() != TypeTime {
		return time.Time{}, fmt.Errorf("%w: %s is not a time", ErrTypeMismatch, p.Tag)
	}
	ft := binary.LittleEndian.Uint64(p.Value[:])
	if ft == 0 {
		return time.Time{}, nil
	}
	d := int64(ft) - filetimeEpochDelta
	return time.Unix(d/1e7, (d%1e7)*100).UTC(), nil
}

// Size returns the size of the value stream of a variable length property.
func (p Property) Size() uint32 {
	return binary.LittleEndian.Uint32(p.Value[:4])
}

// Table is the parsed property table of a storage.
type Table struct {
	// NextRecipientID, NextAttachmentID, RecipientCount and AttachmentCount are only
	// present in the header of message storages.
	NextRecipientID  uint32
	NextAttachmentID uint32
	RecipientCount   uint32
	AttachmentCount  uint32

	props map[Tag]Property
	order []Tag
}

// Parse parses a property stream with the given header length. Trailing bytes that do
// not form a complete entry are ignored.
func Parse(data []byte, headerLen int) (*Table, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d < %d bytes", ErrShortTable, len(data), headerLen)
	}
	t := &Table{props: make(map[Tag]Property)}
	if headerLen >= HeaderEmbedded {
		t.NextRecipientID = binary.LittleEndian.Uint32(data[8:12])
		t.NextAttachmentID = binary.LittleEndian.Uint32(data[12:16])
		t.RecipientCount = binary.LittleEndian.Uint32(data[16:20])
		t.AttachmentCount = binary.LittleEndian.Uint32(data[20:24])
	}
	for off := headerLen; off+entryLen <= len(data); off += entryLen {
		p := Property{
			Tag:   Tag(binary.LittleEndian.Uint32(data[off : off+4])),
			Flags: binary.LittleEndian.Uint32(data[off+4 : off+8]),
		}
		copy(p.Value[:], data[off+8:off+16])
		if _, ok := t.props[p.Tag]; !ok {
			t.order = append(t.order, p.Tag)
		}
		t.props[p.Tag] = p
	}
	return t, nil
}

// Empty returns an empty Table, used for storages without a property stream.
func Empty() *Table {
	return &Table{props: make(map[Tag]Property)}
}

// Len returns the number of properties in the Table.
func (t *Table) Len() int {
	return len(t.order)
}

// Tags returns the property tags of the Table in stream order.
func (t *Table) Tags() []Tag {
	tags := make([]Tag, len(t.order))
	copy(tags, t.order)
	return tags
}

// Get returns the Property with the given Tag.
func (t *Table) Get(tag Tag) (Property, bool) {
	p, ok := t.props[tag]
	return p, ok
}

// Find returns the first Property with the given property ID, regardless of its type.
func (t *Table) Find(id uint16) (Property, bool) {
	for _, tag := range t.order {
		if tag.ID() == id {
			return t.props[tag], true
		}
	}
	return Property{}, false
}

// Int32 returns the integer value of the property with the given ID.
func (t *Table) Int32(id uint16) (int32, bool) {
	p, ok := t.Find(id)
	if !ok {
		return 0, false
	}
	v, err := p.Int32()
	return v, err == nil
}

// Time returns the time value of the property with the given ID. A zero FILETIME is
// reported as not found.
func (t *Table) Time(id uint16) (time.Time, bool) {
	p, ok := t.Get(NewTag(id, TypeTime))
	if !ok {
		return time.Time{}, false
	}
	v, err := p.Time()
	if err != nil || v.IsZero() {
		return time.Time{}, false
	}
	return v, true
}
