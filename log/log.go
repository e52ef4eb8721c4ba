// SPDX-FileCopyrightText: Copyright (c) 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

// Package log implements a logger interface that can be used within the go-msgfile package
package log

import "fmt"

// Level is the log level type
type Level int

const (
	// LevelError is the Level for only ERROR log messages
	LevelError Level = iota
	// LevelWarn is the Level for WARN and higher log messages
	LevelWarn
	// LevelInfo is the Level for INFO and higher log messages
	LevelInfo
	// LevelDebug is the Level for DEBUG and higher log messages
	LevelDebug
)

// EntryString is the key of the structured attribute that carries the storage entry
const EntryString = "entry"

// Log represents a log message type that holds the storage Entry the message refers to,
// a Format string and a slice of Messages
//
// Entry is the path of the storage inside the MSG container (e.g. an attachment or
// recipient storage). It is empty for messages that refer to the top-level message.
type Log struct {
	Entry    string
	Format   string
	Messages []interface{}
}

// Logger is the log interface for go-msgfile
type Logger interface {
	Debugf(Log)
	Infof(Log)
	Warnf(Log)
	Errorf(Log)
}

// String returns the formatted message of the Log without the entry
func (l Log) String() string {
	return fmt.Sprintf(l.Format, l.Messages...)
}
