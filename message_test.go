// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wneessen/go-msgfile/log"
)

// closeContainer is a Container that counts the calls to Close
type closeContainer struct {
	Container
	closed int
	err    error
}

func (c *closeContainer) Close() error {
	c.closed++
	return c.err
}

// TestNew tests the creation of a Message and its defaults
func TestNew(t *testing.T) {
	m, err := New(newTestStreams().container())
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	if m.RecipientSeparator() != DefaultRecipientSeparator {
		t.Errorf("New failed. Expected separator: %q, got: %q", DefaultRecipientSeparator, m.RecipientSeparator())
	}
	if m.AttachmentsDelayed() {
		t.Error("New failed. Expected attachments not to be delayed")
	}
	if !m.AttachmentsReady() {
		t.Error("New failed. Expected attachments to be ready")
	}
	if _, ok := m.Logger().(*log.Stdlog); !ok {
		t.Errorf("New failed. Expected default logger of type *log.Stdlog, got: %T", m.Logger())
	}
	if m.PrefixLen() != 0 {
		t.Errorf("New failed. Expected prefix length 0, got: %d", m.PrefixLen())
	}
	if m.MainProperties() == nil {
		t.Error("New failed. Expected main properties")
	}
}

// TestNew_NoContainer tests that New fails without a Container
func TestNew_NoContainer(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoContainer) {
		t.Errorf("New failed. Expected error: %s, got: %v", ErrNoContainer, err)
	}
}

// TestNew_NilOptions tests that nil options are ignored
func TestNew_NilOptions(t *testing.T) {
	m, err := New(newTestStreams().container(), nil, WithLogger(nil), WithAttachmentFactory(nil),
		WithRTFDecompressor(nil), WithRTFDeencapsulator(nil))
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	if m.Logger() == nil {
		t.Error("New failed. Expected default logger")
	}
}

// TestNew_EagerFields tests that New resolves the eager fields
func TestNew_EagerFields(t *testing.T) {
	s := newTestStreams()
	s.str("", pidBody, "body")
	s.str("", pidSenderName, "Alice")
	s.recipient(0, RecipientTo, "Bob", "")
	m, _ := newTestMessage(t, s)
	for name, f := range map[string]bool{
		"header":     m.header.initialized(),
		"recipients": m.recipients.initialized(),
		"to":         m.addresses[RecipientTo].initialized(),
		"cc":         m.addresses[RecipientCc].initialized(),
		"sender":     m.sender.initialized(),
		"date":       m.date.initialized(),
		"body":       m.body.initialized(),
		"html body":  m.htmlBody.initialized(),
		"named":      m.namedLoaded,
	} {
		if !f {
			t.Errorf("New failed. Expected %s to be resolved", name)
		}
	}
}

// TestOpen_Invalid tests that Open fails on data that is not a MSG file
func TestOpen_Invalid(t *testing.T) {
	if _, err := Open(bytes.NewReader([]byte("not a compound document"))); err == nil {
		t.Error("Open failed. Expected error for invalid data")
	}
	if _, err := OpenFile("testdata/does-not-exist.msg"); err == nil {
		t.Error("OpenFile failed. Expected error for missing file")
	}
}

// TestMessage_Close tests the closing of embedded messages and the owned container
func TestMessage_Close(t *testing.T) {
	s := newTestStreams()
	s.msgAttachment("", 0, "IPM.Note", "first")
	s.dataAttachment("", 1, "a.txt", "", []byte("a"))
	s.msgAttachment("", 2, "", "second")
	c := &closeContainer{Container: s.container()}
	m, err := New(c, WithLogger(&testLogger{}))
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	m.ownsContainer = true
	atts, _ := m.Attachments()

	if err = m.Close(); err != nil {
		t.Errorf("Close failed: %s", err)
	}
	if !atts[0].Embedded().closed || !atts[2].Embedded().closed {
		t.Error("Close failed. Expected embedded messages to be closed")
	}
	if c.closed != 1 {
		t.Errorf("Close failed. Expected container to be closed once, got: %d", c.closed)
	}
	if err = m.Close(); err != nil || c.closed != 1 {
		t.Errorf("Close failed. Expected second close to be a no-op, got %d closes (err: %v)", c.closed, err)
	}
}

// TestMessage_CloseNotOwned tests that a Container passed to New stays open
func TestMessage_CloseNotOwned(t *testing.T) {
	c := &closeContainer{Container: newTestStreams().container()}
	m, err := New(c, WithLogger(&testLogger{}))
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	if err = m.Close(); err != nil {
		t.Errorf("Close failed: %s", err)
	}
	if c.closed != 0 {
		t.Errorf("Close failed. Expected container to stay open, got %d closes", c.closed)
	}
}

// TestMessage_CloseError tests that the container error is returned
func TestMessage_CloseError(t *testing.T) {
	closeErr := errors.New("close failed")
	c := &closeContainer{Container: newTestStreams().container(), err: closeErr}
	m, err := New(c, WithLogger(&testLogger{}))
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	m.ownsContainer = true
	if err = m.Close(); !errors.Is(err, closeErr) {
		t.Errorf("Close failed. Expected error: %s, got: %v", closeErr, err)
	}
}

// TestMessage_CloseAttachmentErrors tests that all embedded messages are closed and the
// first error is returned
func TestMessage_CloseAttachmentErrors(t *testing.T) {
	s := newTestStreams()
	s.dataAttachment("", 0, "a.txt", "", []byte("a"))
	s.dataAttachment("", 1, "b.txt", "", []byte("b"))
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	var containers []*closeContainer
	factory := func(m *Message, dir string) (*Attachment, error) {
		cerr := errFirst
		if len(containers) > 0 {
			cerr = errSecond
		}
		c := &closeContainer{Container: newTestStreams().container(), err: cerr}
		containers = append(containers, c)
		embedded, err := New(c, WithLogger(&testLogger{}))
		if err != nil {
			return nil, err
		}
		embedded.ownsContainer = true
		return &Attachment{
			atype:    AttachmentTypeMsg,
			dir:      dir,
			embedded: embedded,
			kind:     AttachmentRegular,
			msg:      m,
		}, nil
	}
	m, _ := newTestMessage(t, s, WithAttachmentFactory(factory))
	if len(containers) != 2 {
		t.Fatalf("Attachments failed. Expected 2 embedded messages, got: %d", len(containers))
	}

	err := m.Close()
	if !errors.Is(err, errFirst) {
		t.Errorf("Close failed. Expected error: %s, got: %v", errFirst, err)
	}
	if errors.Is(err, errSecond) {
		t.Errorf("Close failed. Expected only the first error, got: %s", err)
	}
	for i, c := range containers {
		if c.closed != 1 {
			t.Errorf("Close failed. Expected container %d to be closed once, got: %d", i, c.closed)
		}
	}
}

// TestMessage_CloseDelayed tests that Close does not build delayed attachments
func TestMessage_CloseDelayed(t *testing.T) {
	s := newTestStreams()
	s.brokenAttachment(0)
	m, _ := newTestMessage(t, s, WithDelayAttachments())
	if err := m.Close(); err != nil {
		t.Errorf("Close failed: %s", err)
	}
	if m.AttachmentsReady() {
		t.Error("Close failed. Expected attachments not to be built")
	}
}
