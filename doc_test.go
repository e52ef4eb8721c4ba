// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile_test

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"

	"github.com/wneessen/go-msgfile"
	"github.com/wneessen/go-msgfile/internal/cfb"
	"github.com/wneessen/go-msgfile/log"
)

// utf16 encodes s as UTF-16LE string stream
func utf16(s string) []byte {
	b, _ := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	return b
}

// exampleContainer returns a message with a subject, a sender, two primary recipients
// and a plain text body
func exampleContainer() msgfile.Container {
	return cfb.FromStreams(map[string][]byte{
		"__substg1.0_0037001F": utf16("Lunch"),
		"__substg1.0_0C1A001F": utf16("Toni Tester"),
		"__substg1.0_5D01001F": utf16("toni@example.com"),
		"__substg1.0_1000001F": utf16("Noon?\r\nToni"),
		"__recip_version1.0_#00000000/__properties_version1.0": {
			0, 0, 0, 0, 0, 0, 0, 0, 0x03, 0, 0x15, 0x0C, 6, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0,
		},
		"__recip_version1.0_#00000000/__substg1.0_3001001F": utf16("Alice"),
		"__recip_version1.0_#00000001/__properties_version1.0": {
			0, 0, 0, 0, 0, 0, 0, 0, 0x03, 0, 0x15, 0x0C, 6, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0,
		},
		"__recip_version1.0_#00000001/__substg1.0_39FE001F": utf16("bob@example.com"),
	})
}

// Code example for the New method
func ExampleNew() {
	m, err := msgfile.New(exampleContainer(), msgfile.WithLogger(log.New(io.Discard, log.LevelError)))
	if err != nil {
		panic(err)
	}
	defer func() { _ = m.Close() }()
	fmt.Println(m.Subject())
	fmt.Println(m.Sender())
	fmt.Println(m.To())
	// Output:
	// Lunch
	// Toni Tester <toni@example.com>
	// Alice; bob@example.com
}

// Code example for the WithRecipientSeparator option
func ExampleWithRecipientSeparator() {
	m, err := msgfile.New(exampleContainer(), msgfile.WithRecipientSeparator(","),
		msgfile.WithLogger(log.New(io.Discard, log.LevelError)))
	if err != nil {
		panic(err)
	}
	fmt.Println(m.To())
	// Output: Alice, bob@example.com
}

// Code example for the Message.HTMLBody method
func ExampleMessage_HTMLBody() {
	m, err := msgfile.New(exampleContainer(), msgfile.WithLogger(log.New(io.Discard, log.LevelError)))
	if err != nil {
		panic(err)
	}
	fmt.Println(string(m.HTMLBody()))
	// Output: <html><body>Noon?<br>Toni</body></html>
}

// Code example for the Message.DefaultFolderName method
func ExampleMessage_DefaultFolderName() {
	m, err := msgfile.New(exampleContainer(), msgfile.WithLogger(log.New(io.Discard, log.LevelError)))
	if err != nil {
		panic(err)
	}
	fmt.Println(m.DefaultFolderName())
	// Output: UnknownDate Lunch
}
