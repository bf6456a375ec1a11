// Package store provides the durable seen-set and output streams of the
// crawl stage, backed by append-only newline-delimited URL files. The
// format is the external contract: other tools tail or re-read these
// files between runs.
package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// LineStore is a durable string set persisted as one entry per line.
// Entries are loaded fully at open and appended on Add; nothing is ever
// removed. A missing backing file yields an empty set.
//
// Add is atomic with the membership check: with concurrent callers,
// exactly one observes added=true for a given key, and the entry is
// flushed to disk before Add returns.
type LineStore struct {
	mu   sync.Mutex
	file *os.File
	keys map[string]struct{}
}

// Open loads the store at path, creating the file if absent.
func Open(path string) (*LineStore, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	keys := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			keys[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}

	return &LineStore{file: file, keys: keys}, nil
}

// Contains reports whether key is already recorded.
func (s *LineStore) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// Add records key, returning whether it was new. New keys are appended
// and synced before Add returns, so a crash after Add never loses an
// entry the caller has already acted on.
func (s *LineStore) Add(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return false, nil
	}

	if _, err := s.file.WriteString(key + "\n"); err != nil {
		return false, fmt.Errorf("failed to append to store: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return false, fmt.Errorf("failed to sync store: %w", err)
	}

	s.keys[key] = struct{}{}
	return true, nil
}

// Len returns the number of recorded entries.
func (s *LineStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Close closes the backing file.
func (s *LineStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// LineSink appends URLs to a newline-delimited output stream in the
// order they are emitted. Dedup is the caller's concern.
type LineSink struct {
	mu   sync.Mutex
	file *os.File
}

// OpenSink opens the output stream at path for appending, creating the
// file if absent.
func OpenSink(path string) (*LineSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output stream %s: %w", path, err)
	}
	return &LineSink{file: file}, nil
}

// Emit appends one URL and flushes it to disk.
func (s *LineSink) Emit(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.WriteString(url + "\n"); err != nil {
		return fmt.Errorf("failed to append to output stream: %w", err)
	}
	return s.file.Sync()
}

// Close closes the backing file.
func (s *LineSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// ReadLines loads all non-blank lines from a newline-delimited URL file.
// Used by the filter and ingest stages to consume upstream streams.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
