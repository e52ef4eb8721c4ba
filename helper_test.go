// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/wneessen/go-msgfile/internal/cfb"
	"github.com/wneessen/go-msgfile/log"
	"github.com/wneessen/go-msgfile/mapi"
)

// filetimeDelta is the number of seconds between the FILETIME and the Unix epoch
const filetimeDelta = 11644473600

// testStreams maps slash separated stream paths to their content and is used to build
// a MSG file in memory
type testStreams map[string][]byte

// testLogEntry is a log message recorded by the testLogger
type testLogEntry struct {
	level string
	log   log.Log
}

// testLogger is a log.Logger that records every log message
type testLogger struct {
	entries []testLogEntry
}

func (l *testLogger) Debugf(lg log.Log) { l.entries = append(l.entries, testLogEntry{"DEBUG", lg}) }
func (l *testLogger) Infof(lg log.Log)  { l.entries = append(l.entries, testLogEntry{"INFO", lg}) }
func (l *testLogger) Warnf(lg log.Log)  { l.entries = append(l.entries, testLogEntry{"WARN", lg}) }
func (l *testLogger) Errorf(lg log.Log) { l.entries = append(l.entries, testLogEntry{"ERROR", lg}) }

// has reports whether a message of the given level containing substr was logged
func (l *testLogger) has(level, substr string) bool {
	for _, e := range l.entries {
		if e.level == level && strings.Contains(e.log.String(), substr) {
			return true
		}
	}
	return false
}

// count returns the number of messages logged with the given level
func (l *testLogger) count(level string) int {
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

// newTestStreams returns the streams of a top level message with an empty property table
func newTestStreams() testStreams {
	s := testStreams{}
	s.props("", mapi.HeaderTopLevel)
	return s
}

func testPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// str adds the Unicode string property id to the storage dir
func (s testStreams) str(dir string, id uint16, v string) {
	s[testPath(dir, streamName(id, mapi.TypeString))] = utf16LE(v)
}

// str8 adds the 8-bit string property id to the storage dir
func (s testStreams) str8(dir string, id uint16, v []byte) {
	s[testPath(dir, streamName(id, mapi.TypeString8))] = v
}

// bin adds the binary property id to the storage dir
func (s testStreams) bin(dir string, id uint16, v []byte) {
	s[testPath(dir, streamName(id, mapi.TypeBinary))] = v
}

// props sets the property table of the storage dir
func (s testStreams) props(dir string, headerLen int, props ...mapi.Property) {
	s[testPath(dir, propertiesStream)] = encodeProps(headerLen, props...)
}

// recipient adds a recipient storage and returns its name
func (s testStreams) recipient(i int, rtype RecipientType, name, email string) string {
	dir := fmt.Sprintf("%s#%08X", recipMarker, i)
	s.props(dir, mapi.HeaderStorage, int32Prop(pidRecipientType, int32(rtype)))
	if name != "" {
		s.str(dir, pidDisplayName, name)
	}
	if email != "" {
		s.str(dir, pidSMTPAddress, email)
	}
	return dir
}

// dataAttachment adds a data attachment storage below the storage parent and returns its path
func (s testStreams) dataAttachment(parent string, i int, name, cid string, data []byte) string {
	dir := testPath(parent, fmt.Sprintf("%s#%08X", attachMarker, i))
	s.props(dir, mapi.HeaderStorage, int32Prop(pidAttachMethod, 1))
	s.str(dir, pidAttachLongName, name)
	if cid != "" {
		s.str(dir, pidAttachContentID, cid)
	}
	s.bin(dir, pidAttachData, data)
	return dir
}

// msgAttachment adds an attachment holding an embedded message with the given subject and
// returns the path of the embedded message storage
func (s testStreams) msgAttachment(parent string, i int, class, subject string) string {
	dir := testPath(parent, fmt.Sprintf("%s#%08X", attachMarker, i))
	s.props(dir, mapi.HeaderStorage, int32Prop(pidAttachMethod, 5))
	sub := testPath(dir, embeddedStorage)
	s.props(sub, mapi.HeaderEmbedded)
	if class != "" {
		s.str(sub, pidMessageClass, class)
	}
	s.str(sub, pidSubject, subject)
	return sub
}

// container returns the streams as Container
func (s testStreams) container() Container {
	return cfb.FromStreams(s)
}

// newTestMessage is a helper method that returns a Message read from the streams s with
// a recording logger
func newTestMessage(t *testing.T, s testStreams, o ...Option) (*Message, *testLogger) {
	t.Helper()
	logger := &testLogger{}
	m, err := New(s.container(), append([]Option{WithLogger(logger)}, o...)...)
	if err != nil {
		t.Fatalf("failed to create new message: %s", err)
	}
	return m, logger
}

func utf16LE(s string) []byte {
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}

func encodeProps(headerLen int, props ...mapi.Property) []byte {
	buf := make([]byte, headerLen, headerLen+len(props)*16)
	for _, p := range props {
		e := make([]byte, 16)
		binary.LittleEndian.PutUint32(e[0:4], uint32(p.Tag))
		binary.LittleEndian.PutUint32(e[4:8], p.Flags)
		copy(e[8:], p.Value[:])
		buf = append(buf, e...)
	}
	return buf
}

func int32Prop(id uint16, v int32) mapi.Property {
	p := mapi.Property{Tag: mapi.NewTag(id, mapi.TypeInt32), Flags: 6}
	binary.LittleEndian.PutUint32(p.Value[:4], uint32(v))
	return p
}

func timeProp(id uint16, t time.Time) mapi.Property {
	p := mapi.Property{Tag: mapi.NewTag(id, mapi.TypeTime), Flags: 6}
	ft := uint64(t.Unix()+filetimeDelta)*1e7 + uint64(t.Nanosecond()/100)
	binary.LittleEndian.PutUint64(p.Value[:], ft)
	return p
}
