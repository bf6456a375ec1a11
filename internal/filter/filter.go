// Package filter implements the second pipeline stage: a stateless
// filename-keyword classifier that separates likely policy documents
// from noise in the crawl's PDF output stream.
package filter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/policycheck/policyscan/internal/config"
	"github.com/policycheck/policyscan/internal/store"
)

// Classifier decides per URL whether the filename looks like a real
// policy document.
type Classifier struct {
	keep []string
	drop []string
}

// NewClassifier builds a classifier from keep/drop keyword lists.
// Keywords match as lowercase substrings of the filename.
func NewClassifier(keep, drop []string) *Classifier {
	lower := func(keywords []string) []string {
		out := make([]string, len(keywords))
		for i, kw := range keywords {
			out[i] = strings.ToLower(kw)
		}
		return out
	}
	return &Classifier{keep: lower(keep), drop: lower(drop)}
}

// Filename extracts the final path segment of a URL, lowercased, with
// query string and fragment stripped.
func Filename(rawURL string) string {
	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		path = parsed.Path
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	return strings.ToLower(path)
}

// ShouldKeep reports whether the URL survives the filter: the filename
// must end in .pdf, contain no drop keyword, and contain at least one
// keep keyword. Drop keywords are checked first and short-circuit.
func (c *Classifier) ShouldKeep(rawURL string) bool {
	filename := Filename(rawURL)

	if !strings.HasSuffix(filename, ".pdf") {
		return false
	}
	for _, kw := range c.drop {
		if strings.Contains(filename, kw) {
			return false
		}
	}
	for _, kw := range c.keep {
		if strings.Contains(filename, kw) {
			return true
		}
	}
	return false
}

// Stats counts filter outcomes for a run.
type Stats struct {
	Total   int
	Kept    int
	Dropped int
}

// Run reads the crawl output stream and splits it into the policy-URL
// stream and the filtered-out stream. Both output files are rewritten
// from scratch each run so they always reflect the full input snapshot.
func Run(cfg *config.FilterConfig) (Stats, error) {
	var stats Stats

	urls, err := store.ReadLines(cfg.InputFile)
	if err != nil {
		return stats, fmt.Errorf("failed to read crawl output: %w", err)
	}
	if len(urls) == 0 {
		return stats, fmt.Errorf("%s contains no URLs, run the crawl stage first", cfg.InputFile)
	}

	kept, err := os.Create(cfg.OutputFile)
	if err != nil {
		return stats, fmt.Errorf("failed to create %s: %w", cfg.OutputFile, err)
	}
	defer func() { _ = kept.Close() }()

	dropped, err := os.Create(cfg.FilteredFile)
	if err != nil {
		return stats, fmt.Errorf("failed to create %s: %w", cfg.FilteredFile, err)
	}
	defer func() { _ = dropped.Close() }()

	classifier := NewClassifier(cfg.KeepKeywords, cfg.DropKeywords)
	slog.Info("filtering URLs", "count", len(urls))

	for _, u := range urls {
		stats.Total++
		out := dropped
		if classifier.ShouldKeep(u) {
			stats.Kept++
			out = kept
			slog.Debug("keep", "filename", Filename(u))
		} else {
			stats.Dropped++
			slog.Debug("drop", "filename", Filename(u))
		}
		if _, err := out.WriteString(u + "\n"); err != nil {
			return stats, fmt.Errorf("failed to write output: %w", err)
		}
	}

	slog.Info("filter summary",
		"total", stats.Total,
		"kept", stats.Kept,
		"dropped", stats.Dropped)
	return stats, nil
}
