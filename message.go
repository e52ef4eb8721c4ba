// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding"

	"github.com/wneessen/go-msgfile/internal/cfb"
	"github.com/wneessen/go-msgfile/log"
	"github.com/wneessen/go-msgfile/mapi"
	"github.com/wneessen/go-msgfile/rtf"
)

// DefaultRecipientSeparator is the separator placed between addresses of the same role
const DefaultRecipientSeparator = ";"

// ErrUnknownEncoding is returned if the override encoding is not a known character set
var ErrUnknownEncoding = errors.New("unknown encoding")

// AttachmentFactory creates the Attachment stored in the storage dir of the Message m.
//
// A factory signals an attachment type it does not recognize by returning an error
// that wraps ErrUnsupportedAttachment. Any other error is treated as a broken attachment.
type AttachmentFactory func(m *Message, dir string) (*Attachment, error)

// Option returns a function that can be used for grouping Message options
type Option func(*config)

// config holds the options of a Message. Embedded messages inherit the config of
// their parent.
type config struct {
	attachFactory    AttachmentFactory
	attachErrBehav   AttachmentErrorBehavior
	deencapsulateRTF func([]byte) (*rtf.Result, error)
	decompressRTF    func([]byte) ([]byte, error)
	delayAttachments bool
	logger           log.Logger
	overrideEnc      string
	recipSeparator   string
}

// Message is a message reconstructed from the storages and streams of a MSG file.
//
// All fields are resolved lazily and cached. A Message is not safe for concurrent use.
type Message struct {
	// addresses caches the resolved address lines per RecipientType
	addresses [RecipientBcc + 1]field[string]

	// attachments is the attachment tree of the Message
	attachments field[[]*Attachment]

	// attachState tracks the construction of the attachment tree for named properties
	attachState attachState

	// body, compressedRTF, rtfBody, htmlBody and deencapsulated make up the body chain
	body           field[string]
	compressedRTF  field[[]byte]
	deencapsulated field[*rtf.Result]
	htmlBody       field[[]byte]
	rtfBody        field[[]byte]

	// closed is set once the Message was closed
	closed bool

	// config holds the options of the Message
	config config

	// container is the compound document the Message is read from
	container Container

	// crlf is the line ending of the plain text body
	crlf string

	// date, inReplyTo, messageID, sender and subject are the small resolvers
	date      field[string]
	inReplyTo field[string]
	messageID field[string]
	sender    field[string]
	subject   field[string]

	// enc is the encoding for 8-bit string streams
	enc field[encoding.Encoding]

	// header is the message header, raw from the MSG file or synthesized
	header           field[mail.Header]
	headerBusy       bool
	headerFromStream bool
	headerMap        field[map[string]string]

	// named holds the named properties registered on the Message
	named       *NamedProperties
	namedLoaded bool

	// ownsContainer is set if the Message opened the container itself
	ownsContainer bool

	// pending holds the named properties queued for the delayed attachments
	pending []NamedProperty

	// prefix is the storage path of the Message inside the container
	prefix []string

	// props is the property table of the Message
	props field[*mapi.Table]

	// propsHeaderLen is the length of the header of the property table
	propsHeaderLen int

	// recipients is the list of recipients of the Message
	recipients field[[]*Recipient]
}

// New returns a new Message read from the root storage of the Container c.
//
// Unless the attachments are delayed, the attachment tree is built right away and
// an error of the tree is returned.
func New(c Container, o ...Option) (*Message, error) {
	if c == nil {
		return nil, ErrNoContainer
	}
	conf := config{
		attachFactory:    NewAttachment,
		attachErrBehav:   AttachErrorThrow,
		deencapsulateRTF: rtf.Deencapsulate,
		decompressRTF:    rtf.Decompress,
		logger:           log.New(os.Stderr, log.LevelWarn),
		recipSeparator:   DefaultRecipientSeparator,
	}

	// Override defaults with optionally provided Option functions
	for _, co := range o {
		if co == nil {
			continue
		}
		co(&conf)
	}

	m := newMessage(c, nil, mapi.HeaderTopLevel, conf)
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// Open reads a MSG file from r and returns the Message stored in it
func Open(r io.ReaderAt, o ...Option) (*Message, error) {
	c, err := cfb.Open(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open MSG file: %w", err)
	}
	return newOwned(c, o...)
}

// OpenFile reads the MSG file with the given name and returns the Message stored in it
func OpenFile(name string, o ...Option) (*Message, error) {
	c, err := cfb.OpenFile(name)
	if err != nil {
		return nil, err
	}
	return newOwned(c, o...)
}

// newOwned returns a Message that closes the container c on Close
func newOwned(c *cfb.Storage, o ...Option) (*Message, error) {
	m, err := New(c, o...)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	m.ownsContainer = true
	return m, nil
}

// newEmbedded returns the Message stored in the storage path of the parent Message
func newEmbedded(parent *Message, path []string) (*Message, error) {
	m := newMessage(parent.container, path, mapi.HeaderEmbedded, parent.config)
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

func newMessage(c Container, prefix []string, headerLen int, conf config) *Message {
	return &Message{
		config:         conf,
		container:      c,
		crlf:           "\n",
		named:          newNamedProperties(),
		prefix:         prefix,
		propsHeaderLen: headerLen,
	}
}

// init validates the options and forces the eager fields in their fixed order
func (m *Message) init() error {
	if m.config.overrideEnc != "" {
		enc, err := lookupEncoding(m.config.overrideEnc)
		if err != nil {
			return err
		}
		m.enc.set(enc, true)
	}

	m.MainProperties()
	m.Header()
	m.Recipients()
	if !m.config.delayAttachments {
		if _, err := m.Attachments(); err != nil {
			return err
		}
	}
	m.To()
	m.Cc()
	m.Sender()
	m.Date()
	m.Body()
	m.HTMLBody()
	m.Named()
	return nil
}

// WithDelayAttachments defers building the attachment tree until it is first requested
func WithDelayAttachments() Option {
	return func(c *config) {
		c.delayAttachments = true
	}
}

// WithOverrideEncoding overrides the encoding of 8-bit string streams. The name is
// a code page like "cp1252" or a character set name like "iso-8859-1".
func WithOverrideEncoding(name string) Option {
	return func(c *config) {
		c.overrideEnc = name
	}
}

// WithAttachmentErrorBehavior sets which attachment failures are replaced by placeholders
func WithAttachmentErrorBehavior(b AttachmentErrorBehavior) Option {
	return func(c *config) {
		c.attachErrBehav = b
	}
}

// WithRecipientSeparator overrides the default separator between addresses
func WithRecipientSeparator(s string) Option {
	return func(c *config) {
		c.recipSeparator = s
	}
}

// WithLogger overrides the default logger
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		if l == nil {
			return
		}
		c.logger = l
	}
}

// WithAttachmentFactory overrides the function that creates the attachments
func WithAttachmentFactory(f AttachmentFactory) Option {
	return func(c *config) {
		if f == nil {
			return
		}
		c.attachFactory = f
	}
}

// WithRTFDecompressor overrides the decompressor for the compressed RTF body
func WithRTFDecompressor(f func([]byte) ([]byte, error)) Option {
	return func(c *config) {
		if f == nil {
			return
		}
		c.decompressRTF = f
	}
}

// WithRTFDeencapsulator overrides the function that extracts HTML or text from the RTF body
func WithRTFDeencapsulator(f func([]byte) (*rtf.Result, error)) Option {
	return func(c *config) {
		if f == nil {
			return
		}
		c.deencapsulateRTF = f
	}
}

// AttachmentsDelayed reports whether the attachment tree is built on first request
func (m *Message) AttachmentsDelayed() bool {
	return m.config.delayAttachments
}

// AttachmentsReady reports whether the attachment tree was built
func (m *Message) AttachmentsReady() bool {
	return m.attachState == attachReady
}

// RecipientSeparator returns the separator between addresses of the same role
func (m *Message) RecipientSeparator() string {
	return m.config.recipSeparator
}

// Logger returns the logger of the Message
func (m *Message) Logger() log.Logger {
	return m.config.logger
}

// PrefixLen returns the depth of the storage of the Message inside the container
func (m *Message) PrefixLen() int {
	return len(m.prefix)
}

// Container returns the container the Message is read from
func (m *Message) Container() Container {
	return m.container
}

// MainProperties returns the property table of the Message. A missing or unreadable
// table results in an empty table.
func (m *Message) MainProperties() *mapi.Table {
	t, _ := m.props.get(func() (*mapi.Table, bool) {
		return m.readProperties(m.prefix, m.propsHeaderLen), true
	})
	return t
}

// Close closes all attachments that hold an embedded message and, if the Message
// opened it, the container. The first error is returned. Closing a closed Message
// is a no-op.
func (m *Message) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if atts, ok := m.attachments.peek(); ok {
		for _, a := range atts {
			if a.Embedded() == nil {
				continue
			}
			if cerr := a.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close attachment %s: %w", a.Dir(), cerr)
			}
		}
	}
	if !m.ownsContainer {
		return err
	}
	if cl, ok := m.container.(io.Closer); ok {
		if cerr := cl.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close container: %w", cerr)
		}
	}
	return err
}

// readProperties parses the property table stored in the storage dir
func (m *Message) readProperties(dir []string, headerLen int) *mapi.Table {
	data, ok := m.container.Stream(joinPath(dir, propertiesStream))
	if !ok {
		return mapi.Empty()
	}
	t, err := mapi.Parse(data, headerLen)
	if err != nil {
		m.warnf(pathString(dir), "failed to parse property table: %s", err)
		return mapi.Empty()
	}
	return t
}

func (m *Message) entry() string {
	return pathString(m.prefix)
}

func (m *Message) debugf(entry, format string, v ...interface{}) {
	m.config.logger.Debugf(log.Log{Entry: entry, Format: format, Messages: v})
}

func (m *Message) infof(entry, format string, v ...interface{}) {
	m.config.logger.Infof(log.Log{Entry: entry, Format: format, Messages: v})
}

func (m *Message) warnf(entry, format string, v ...interface{}) {
	m.config.logger.Warnf(log.Log{Entry: entry, Format: format, Messages: v})
}

func (m *Message) errorf(entry, format string, v ...interface{}) {
	m.config.logger.Errorf(log.Log{Entry: entry, Format: format, Messages: v})
}
