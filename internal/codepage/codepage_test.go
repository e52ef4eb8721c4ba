// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package codepage

import "testing"

// TestDecode tests decoding of 8-bit text with different code pages
func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		cp   int
		in   []byte
		want string
	}{
		{"Windows-1252", 1252, []byte{'c', 'a', 'f', 0xe9}, "café"},
		{"Windows-1251", 1251, []byte{0xcf, 0xf0, 0xe8}, "При"},
		{"UTF-8", 65001, []byte("café"), "café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, ok := Lookup(tt.cp)
			if !ok {
				t.Fatalf("Lookup() failed. Code page %d not found", tt.cp)
			}
			if got := Decode(enc, tt.in); got != tt.want {
				t.Errorf("Decode() failed. Expected: %q, got: %q", tt.want, got)
			}
		})
	}
}

// TestDecode_Default tests that a nil encoding falls back to Windows-1252
func TestDecode_Default(t *testing.T) {
	if got := Decode(nil, []byte{0x80}); got != "€" {
		t.Errorf("Decode() failed. Expected: %q, got: %q", "€", got)
	}
}

// TestByName tests the charset name lookup
func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		sf      bool
	}{
		{"utf-8", "utf-8", false},
		{"upper case", "ISO-8859-1", false},
		{"windows code page", "windows-1252", false},
		{"cp notation", "cp1251", false},
		{"unknown", "not-a-charset", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := ByName(tt.charset)
			if err != nil && !tt.sf {
				t.Errorf("ByName() failed: %s", err)
			}
			if err == nil && tt.sf {
				t.Errorf("ByName() was supposed to fail, but didn't")
			}
			if err == nil && enc == nil {
				t.Errorf("ByName() returned nil encoding without error")
			}
		})
	}
}
