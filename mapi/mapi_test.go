// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package mapi

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// encodeTable is a helper method to build a property stream with the given header length
func encodeTable(headerLen int, props ...Property) []byte {
	buf := make([]byte, headerLen, headerLen+len(props)*entryLen)
	if headerLen >= HeaderEmbedded {
		binary.LittleEndian.PutUint32(buf[16:20], 2)
		binary.LittleEndian.PutUint32(buf[20:24], 1)
	}
	for _, p := range props {
		e := make([]byte, entryLen)
		binary.LittleEndian.PutUint32(e[0:4], uint32(p.Tag))
		binary.LittleEndian.PutUint32(e[4:8], p.Flags)
		copy(e[8:], p.Value[:])
		buf = append(buf, e...)
	}
	return buf
}

func int32Prop(id uint16, v int32) Property {
	p := Property{Tag: NewTag(id, TypeInt32), Flags: 6}
	binary.LittleEndian.PutUint32(p.Value[:4], uint32(v))
	return p
}

func timeProp(id uint16, t time.Time) Property {
	p := Property{Tag: NewTag(id, TypeTime), Flags: 6}
	ft := uint64(t.UnixNano()/100 + filetimeEpochDelta)
	binary.LittleEndian.PutUint64(p.Value[:], ft)
	return p
}

// TestTag tests the Tag helper methods
func TestTag(t *testing.T) {
	tag := NewTag(0x0E07, TypeInt32)
	if tag.ID() != 0x0E07 {
		t.Errorf("ID() failed. Expected: %04X, got: %04X", 0x0E07, tag.ID())
	}
	if tag.Type() != TypeInt32 {
		t.Errorf("Type() failed. Expected: %s, got: %s", TypeInt32, tag.Type())
	}
	if tag.String() != "0E070003" {
		t.Errorf("String() failed. Expected: %s, got: %s", "0E070003", tag.String())
	}
}

// TestPropType_IsVariable tests the IsVariable method of the PropType
func TestPropType_IsVariable(t *testing.T) {
	tests := []struct {
		name string
		pt   PropType
		want bool
	}{
		{"Int32", TypeInt32, false},
		{"Time", TypeTime, false},
		{"Bool", TypeBool, false},
		{"String", TypeString, true},
		{"String8", TypeString8, true},
		{"Binary", TypeBinary, true},
		{"Object", TypeObject, true},
		{"Multi-valued Int32", TypeInt32 | 0x1000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pt.IsVariable(); got != tt.want {
				t.Errorf("IsVariable() failed. Expected: %t, got: %t", tt.want, got)
			}
		})
	}
}

// TestParse tests parsing of property streams with the different header lengths
func TestParse(t *testing.T) {
	sent := time.Date(2023, 5, 7, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name      string
		headerLen int
		wantCount uint32
	}{
		{"top-level message", HeaderTopLevel, 2},
		{"embedded message", HeaderEmbedded, 2},
		{"attachment storage", HeaderStorage, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeTable(tt.headerLen, int32Prop(0x0E07, 1), timeProp(0x0039, sent))
			tbl, err := Parse(data, tt.headerLen)
			if err != nil {
				t.Fatalf("Parse() failed: %s", err)
			}
			if tbl.Len() != 2 {
				t.Errorf("Parse() failed. Expected 2 properties, got: %d", tbl.Len())
			}
			if tbl.RecipientCount != tt.wantCount {
				t.Errorf("Parse() failed. Expected recipient count: %d, got: %d", tt.wantCount,
					tbl.RecipientCount)
			}
			flags, ok := tbl.Int32(0x0E07)
			if !ok || flags != 1 {
				t.Errorf("Int32() failed. Expected: 1, got: %d (found: %t)", flags, ok)
			}
			st, ok := tbl.Time(0x0039)
			if !ok || !st.Equal(sent) {
				t.Errorf("Time() failed. Expected: %s, got: %s (found: %t)", sent, st, ok)
			}
		})
	}
}

// TestParse_Short tests that a stream shorter than its header is rejected
func TestParse_Short(t *testing.T) {
	_, err := Parse(make([]byte, 10), HeaderTopLevel)
	if !errors.Is(err, ErrShortTable) {
		t.Errorf("Parse() with short data was supposed to fail with ErrShortTable, got: %v", err)
	}
}

// TestParse_TrailingBytes tests that an incomplete trailing entry is ignored
func TestParse_TrailingBytes(t *testing.T) {
	data := encodeTable(HeaderStorage, int32Prop(0x0C15, 2))
	data = append(data, 0x01, 0x02, 0x03)
	tbl, err := Parse(data, HeaderStorage)
	if err != nil {
		t.Fatalf("Parse() failed: %s", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("Parse() failed. Expected 1 property, got: %d", tbl.Len())
	}
}

// TestTable_Missing tests lookups of missing properties
func TestTable_Missing(t *testing.T) {
	tbl := Empty()
	if _, ok := tbl.Int32(0x0E07); ok {
		t.Error("Int32() on empty table was not supposed to find a value")
	}
	if _, ok := tbl.Time(0x0039); ok {
		t.Error("Time() on empty table was not supposed to find a value")
	}
	if _, ok := tbl.Find(0x0037); ok {
		t.Error("Find() on empty table was not supposed to find a value")
	}
}

// TestProperty_TypeMismatch tests that typed accessors reject other property types
func TestProperty_TypeMismatch(t *testing.T) {
	p := int32Prop(0x0E07, 1)
	if _, err := p.Time(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Time() on integer property was supposed to fail, got: %v", err)
	}
	if _, err := p.Bool(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Bool() on integer property was supposed to fail, got: %v", err)
	}
	if _, err := p.Int64(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Int64() on integer property was supposed to fail, got: %v", err)
	}
	if _, err := p.Float64(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Float64() on integer property was supposed to fail, got: %v", err)
	}
}

// TestProperty_Bool tests the Bool accessor
func TestProperty_Bool(t *testing.T) {
	p := Property{Tag: NewTag(0x0E1B, TypeBool)}
	p.Value[0] = 1
	v, err := p.Bool()
	if err != nil || !v {
		t.Errorf("Bool() failed. Expected: true, got: %t (err: %v)", v, err)
	}
}
