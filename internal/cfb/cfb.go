// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

// Package cfb loads a Compound File Binary document, the container format of Outlook
// MSG files, into memory and offers directory listing and stream retrieval on it.
package cfb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/richardlehane/mscfb"
)

// ErrClosed is returned by Close if the Storage was already closed. A closed Storage
// returns no streams.
var ErrClosed = errors.New("storage is closed")

// sep joins path elements into map keys. Storage and stream names of MSG files never
// contain it.
const sep = "/"

// Storage is an in-memory copy of all storages and streams of a compound document.
type Storage struct {
	storages map[string][]string
	streams  map[string][]byte
	paths    map[string][]string
	closed   bool
}

// Open reads the compound document from r. All streams are read into memory, r is not
// used after Open returns.
func Open(r io.ReaderAt) (*Storage, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read compound document: %w", err)
	}
	s := newStorage()
	for entry, err := doc.Next(); ; entry, err = doc.Next() {
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read compound document entry: %w", err)
		}
		path := make([]string, 0, len(entry.Path)+1)
		path = append(path, entry.Path...)
		path = append(path, entry.Name)
		if entry.FileInfo().IsDir() {
			s.addStorage(path)
			continue
		}
		buf := make([]byte, entry.Size)
		if _, err = io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("failed to read stream %q: %w", strings.Join(path, sep), err)
		}
		s.addStream(path, buf)
	}
	return s, nil
}

// OpenFile opens the compound document at the given file path. The file is closed
// before OpenFile returns.
func OpenFile(name string) (*Storage, error) {
	fh, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = fh.Close()
	}()
	return Open(fh)
}

// FromStreams builds a Storage from a map of slash separated stream paths to their
// content. Parent storages are created implicitly.
func FromStreams(streams map[string][]byte) *Storage {
	s := newStorage()
	for k, v := range streams {
		s.addStream(strings.Split(k, sep), v)
	}
	return s
}

func newStorage() *Storage {
	return &Storage{
		storages: make(map[string][]string),
		streams:  make(map[string][]byte),
		paths:    make(map[string][]string),
	}
}

// addStorage registers the storage at path and all its parents
func (s *Storage) addStorage(path []string) {
	for i := 1; i <= len(path); i++ {
		key := strings.Join(path[:i], sep)
		if _, ok := s.storages[key]; !ok {
			s.storages[key] = append([]string(nil), path[:i]...)
		}
	}
}

// addStream registers the stream at path and its parent storages
func (s *Storage) addStream(path []string, data []byte) {
	if len(path) > 1 {
		s.addStorage(path[:len(path)-1])
	}
	key := strings.Join(path, sep)
	s.streams[key] = data
	s.paths[key] = append([]string(nil), path...)
}

// ListEntries returns the paths of all streams, or of all storages if storagesOnly is
// set, sorted by path. If includeRoot is set, the root storage is listed as an empty
// path in front of the storages.
func (s *Storage) ListEntries(includeRoot, storagesOnly bool) [][]string {
	src := s.paths
	if storagesOnly {
		src = s.storages
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([][]string, 0, len(keys)+1)
	if includeRoot && storagesOnly {
		entries = append(entries, []string{})
	}
	for _, k := range keys {
		entries = append(entries, append([]string(nil), src[k]...))
	}
	return entries
}

// Stream returns the content of the stream at path.
func (s *Storage) Stream(path []string) ([]byte, bool) {
	if s.closed {
		return nil, false
	}
	data, ok := s.streams[strings.Join(path, sep)]
	return data, ok
}

// Close releases the streams of the Storage. Streams cannot be retrieved afterwards.
func (s *Storage) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.streams = nil
	return nil
}
