// SPDX-FileCopyrightText: Copyright (c) 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"log"
)

// Stdlog is the default logger that satisfies the Logger interface. It writes one line per
// message, labeled with the level and the storage entry the message refers to.
type Stdlog struct {
	level  Level
	logger *log.Logger
}

// CallDepth is the call depth value for the log.Logger's Output method
// This defaults to 2 and is only here for better readablity of the code
const CallDepth = 2

// levelLabels holds the aligned labels of the levels in plain text logs
var levelLabels = map[Level]string{
	LevelError: "ERROR: ",
	LevelWarn:  " WARN: ",
	LevelInfo:  " INFO: ",
	LevelDebug: "DEBUG: ",
}

// New returns a new Stdlog type that satisfies the Logger interface
func New(output io.Writer, level Level) *Stdlog {
	return &Stdlog{
		level:  level,
		logger: log.New(output, "", log.LstdFlags),
	}
}

// prefix returns the label of the level followed by the storage entry of logData, if any
func prefix(level Level, logData Log) string {
	if logData.Entry == "" {
		return levelLabels[level]
	}
	return levelLabels[level] + "[" + logData.Entry + "] "
}

// output writes logData if level is enabled
func (l *Stdlog) output(level Level, logData Log) {
	if l.level < level {
		return
	}
	_ = l.logger.Output(CallDepth+1, prefix(level, logData)+logData.String())
}

// Debugf performs a Printf() on the debug logger
func (l *Stdlog) Debugf(log Log) {
	l.output(LevelDebug, log)
}

// Infof performs a Printf() on the info logger
func (l *Stdlog) Infof(log Log) {
	l.output(LevelInfo, log)
}

// Warnf performs a Printf() on the warn logger
func (l *Stdlog) Warnf(log Log) {
	l.output(LevelWarn, log)
}

// Errorf performs a Printf() on the error logger
func (l *Stdlog) Errorf(log Log) {
	l.output(LevelError, log)
}
