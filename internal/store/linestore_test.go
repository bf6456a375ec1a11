package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestOpenMissingFileYieldsEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_pages.txt")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	defer func() { _ = s.Close() }()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Contains("https://acme.com") {
		t.Error("Contains() = true for empty store")
	}
}

func TestAddIsDurableAndDedups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_pdfs.txt")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}

	added, err := s.Add("https://acme.com/a.pdf")
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if !added {
		t.Error("first Add() = false, want true")
	}

	added, err = s.Add("https://acme.com/a.pdf")
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if added {
		t.Error("duplicate Add() = true, want false")
	}

	if _, err := s.Add("https://acme.com/b.pdf"); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}
	want := "https://acme.com/a.pdf\nhttps://acme.com/b.pdf\n"
	if string(data) != want {
		t.Errorf("store file = %q, want %q", string(data), want)
	}
}

func TestReopenRestoresEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_pages.txt")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	for _, key := range []string{"https://a.com/1", "https://a.com/2"} {
		if _, err := s.Add(key); err != nil {
			t.Fatalf("Add() returned error: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() returned error: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if reopened.Len() != 2 {
		t.Errorf("Len() after reopen = %d, want 2", reopened.Len())
	}
	if !reopened.Contains("https://a.com/1") {
		t.Error("reopened store lost an entry")
	}

	added, err := reopened.Add("https://a.com/1")
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if added {
		t.Error("Add() of persisted entry = true, want false")
	}
}

func TestConcurrentAddInsertsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.txt")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	defer func() { _ = s.Close() }()

	const workers = 16
	var wg sync.WaitGroup
	results := make([]bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			added, err := s.Add("https://acme.com/shared.pdf")
			if err != nil {
				t.Errorf("Add() returned error: %v", err)
				return
			}
			results[i] = added
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, added := range results {
		if added {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("%d concurrent Adds observed added=true, want exactly 1", winners)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 1 {
		t.Errorf("store file has %d lines, want 1", lines)
	}
}

func TestSinkAppendsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")

	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink() returned error: %v", err)
	}
	for _, u := range []string{"https://a.com/1.pdf", "https://a.com/2.pdf"} {
		if err := sink.Emit(u); err != nil {
			t.Fatalf("Emit() returned error: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	// Reopening appends rather than truncating.
	sink, err = OpenSink(path)
	if err != nil {
		t.Fatalf("second OpenSink() returned error: %v", err)
	}
	if err := sink.Emit("https://a.com/3.pdf"); err != nil {
		t.Fatalf("Emit() returned error: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() returned error: %v", err)
	}
	want := []string{"https://a.com/1.pdf", "https://a.com/2.pdf", "https://a.com/3.pdf"}
	if len(lines) != len(want) {
		t.Fatalf("ReadLines() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReadLinesSkipsBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	content := "https://a.com/1.pdf\n\n  \nhttps://a.com/2.pdf\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() returned error: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("ReadLines() = %v, want 2 entries", lines)
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	if _, err := ReadLines(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("ReadLines() on missing file returned nil error")
	}
}
