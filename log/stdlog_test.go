// SPDX-FileCopyrightText: Copyright (c) 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"strings"
	"testing"
)

const testEntry = "__attach_version1.0_#00000000"

func TestNew(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelDebug)
	if l.level != LevelDebug {
		t.Error("Expected level to be LevelDebug, got ", l.level)
	}
	if l.logger == nil {
		t.Error("Logger not initialized")
	}
}

func TestDebugf(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelDebug)

	l.Debugf(Log{Format: "test %s", Messages: []interface{}{"foo"}})
	expected := "DEBUG: test foo\n"
	if !strings.HasSuffix(b.String(), expected) {
		t.Errorf("Expected %q, got %q", expected, b.String())
	}
	l.Debugf(Log{Entry: testEntry, Format: "test %s", Messages: []interface{}{"foo"}})
	expected = "DEBUG: [" + testEntry + "] test foo\n"
	if !strings.HasSuffix(b.String(), expected) {
		t.Errorf("Expected %q, got %q", expected, b.String())
	}

	b.Reset()
	l.level = LevelInfo
	l.Debugf(Log{Format: "test %s", Messages: []interface{}{"foo"}})
	if b.String() != "" {
		t.Error("Debug message was not expected to be logged")
	}
}

func TestInfof(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelInfo)

	l.Infof(Log{Format: "test %s", Messages: []interface{}{"foo"}})
	expected := " INFO: test foo\n"
	if !strings.HasSuffix(b.String(), expected) {
		t.Errorf("Expected %q, got %q", expected, b.String())
	}

	b.Reset()
	l.level = LevelWarn
	l.Infof(Log{Format: "test %s", Messages: []interface{}{"foo"}})
	if b.String() != "" {
		t.Error("Info message was not expected to be logged")
	}
}

func TestWarnf(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelWarn)

	l.Warnf(Log{Entry: testEntry, Format: "test %s", Messages: []interface{}{"foo"}})
	expected := " WARN: [" + testEntry + "] test foo\n"
	if !strings.HasSuffix(b.String(), expected) {
		t.Errorf("Expected %q, got %q", expected, b.String())
	}

	b.Reset()
	l.level = LevelError
	l.Warnf(Log{Format: "test %s", Messages: []interface{}{"foo"}})
	if b.String() != "" {
		t.Error("Warn message was not expected to be logged")
	}
}

func TestErrorf(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelError)

	l.Errorf(Log{Format: "test %s", Messages: []interface{}{"foo"}})
	expected := "ERROR: test foo\n"
	if !strings.HasSuffix(b.String(), expected) {
		t.Errorf("Expected %q, got %q", expected, b.String())
	}

	b.Reset()
	l.level = LevelError - 1
	l.Errorf(Log{Format: "test %s", Messages: []interface{}{"foo"}})
	if b.String() != "" {
		t.Error("Error message was not expected to be logged")
	}
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		entry string
		want  string
	}{
		{"error without entry", LevelError, "", "ERROR: "},
		{"warn with entry", LevelWarn, testEntry, " WARN: [" + testEntry + "] "},
		{"info without entry", LevelInfo, "", " INFO: "},
		{"debug with entry", LevelDebug, testEntry, "DEBUG: [" + testEntry + "] "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prefix(tt.level, Log{Entry: tt.entry}); got != tt.want {
				t.Errorf("prefix failed. Expected: %q, got: %q", tt.want, got)
			}
		})
	}
}
