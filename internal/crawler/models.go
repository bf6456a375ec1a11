package crawler

import (
	"sort"
	"sync"
)

// FetchResponse is the outcome of a successful HTTP exchange. Non-2xx
// statuses are represented here, not as errors; transport failures are
// returned as errors and classified separately.
type FetchResponse struct {
	StatusCode int
	Body       []byte
	FinalURL   string // after redirects
}

// Stats collects crawl counters. All methods are safe for concurrent
// use by per-domain workers.
type Stats struct {
	mu               sync.Mutex
	pagesVisited     int
	pdfsFound        int
	errorsByCategory map[string]int
}

// NewStats returns zeroed counters for a single run.
func NewStats() *Stats {
	return &Stats{errorsByCategory: make(map[string]int)}
}

// RecordPage counts one visited page.
func (s *Stats) RecordPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagesVisited++
}

// RecordPDF counts one newly discovered PDF.
func (s *Stats) RecordPDF() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdfsFound++
}

// RecordError counts one classified per-page error.
func (s *Stats) RecordError(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorsByCategory[category]++
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	PagesVisited     int
	PDFsFound        int
	TotalErrors      int
	ErrorsByCategory map[string]int
}

// Snapshot copies the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	errors := make(map[string]int, len(s.errorsByCategory))
	total := 0
	for category, count := range s.errorsByCategory {
		errors[category] = count
		total += count
	}

	return StatsSnapshot{
		PagesVisited:     s.pagesVisited,
		PDFsFound:        s.pdfsFound,
		TotalErrors:      total,
		ErrorsByCategory: errors,
	}
}

// ErrorCategories returns error categories sorted by descending count,
// ties broken alphabetically, for stable summary output.
func (s StatsSnapshot) ErrorCategories() []string {
	categories := make([]string, 0, len(s.ErrorsByCategory))
	for category := range s.ErrorsByCategory {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		ci, cj := s.ErrorsByCategory[categories[i]], s.ErrorsByCategory[categories[j]]
		if ci != cj {
			return ci > cj
		}
		return categories[i] < categories[j]
	})
	return categories
}
