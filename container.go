// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package msgfile

import (
	"errors"
	"strings"
)

// ErrNoContainer is returned if a Message is created without a Container
var ErrNoContainer = errors.New("no container given")

// Container is the compound document that holds the storages and streams of a MSG file.
//
// Paths are slices of storage names followed by a stream name, relative to the root
// storage of the document. Container implementations must be safe to use by a single
// goroutine and are treated as read-only.
type Container interface {
	// ListEntries returns the paths of all streams or, if storagesOnly is set, of all
	// storages. If includeRoot is set, the root storage is included as an empty path.
	ListEntries(includeRoot, storagesOnly bool) [][]string

	// Stream returns the content of the stream at path.
	Stream(path []string) ([]byte, bool)
}

// joinPath returns a new path of dir followed by names. dir is never modified.
func joinPath(dir []string, names ...string) []string {
	p := make([]string, 0, len(dir)+len(names))
	p = append(p, dir...)
	return append(p, names...)
}

// hasPathPrefix reports whether path starts with all elements of prefix
func hasPathPrefix(path, prefix []string) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

// pathString returns the printable form of a path
func pathString(path []string) string {
	return strings.Join(path, "/")
}
