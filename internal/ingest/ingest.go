// Package ingest implements the third pipeline stage: download each
// accepted policy URL, validate that the response is a plausible PDF,
// persist the raw bytes, and record a metadata row in the document
// catalog for the later classification phase.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/policycheck/policyscan/internal/config"
	"github.com/policycheck/policyscan/internal/crawler"
	"github.com/policycheck/policyscan/internal/store"
)

// Classification placeholder values until the manual/ML phase fills
// them in.
const (
	Unclassified        = "Unknown"
	StatusNeedsClassify = "needs_classification"
)

// DocumentRecord is the metadata stored per ingested URL, successful
// or not.
type DocumentRecord struct {
	FileName   string
	SourceURL  string
	FetchedAt  time.Time
	HTTPStatus int
	SizeBytes  int64
	Success    bool
	Skipped    bool
	Error      string

	// Phase 2 classification fields
	Country       string
	Insurer       string
	InsuranceLine string
	ProductName   string
	Status        string
}

// Catalog persists document metadata records.
type Catalog interface {
	SaveDocument(rec *DocumentRecord) error
	Close() error
}

// newRecord builds a record with classification placeholders set.
func newRecord(sourceURL, fileName string) *DocumentRecord {
	return &DocumentRecord{
		FileName:      fileName,
		SourceURL:     sourceURL,
		FetchedAt:     time.Now().UTC(),
		Country:       Unclassified,
		Insurer:       Unclassified,
		InsuranceLine: Unclassified,
		ProductName:   Unclassified,
		Status:        StatusNeedsClassify,
	}
}

var unsafeChars = regexp.MustCompile(`[^\w.\-]`)

// SafeFilename derives a filesystem-safe name from a URL: final path
// segment, lowercased, non-word characters replaced, forced .pdf
// suffix, length-capped.
func SafeFilename(rawURL string) string {
	name := rawURL
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "document.pdf"
	}

	name = unsafeChars.ReplaceAllString(strings.ToLower(name), "_")
	if !strings.HasSuffix(name, ".pdf") {
		name += ".pdf"
	}
	if len(name) > 200 {
		name = name[:200]
	}
	return name
}

// ValidatePDF sanity-checks a downloaded body: Content-Type must
// mention pdf, the body must carry the %PDF signature, and the size
// must fall within [min, max].
func ValidatePDF(contentType string, body []byte, minSize, maxSize int64) error {
	if !strings.Contains(strings.ToLower(contentType), "pdf") {
		return fmt.Errorf("content-type not PDF: %s", contentType)
	}
	if !strings.HasPrefix(string(body[:min(len(body), 4)]), "%PDF") {
		return fmt.Errorf("invalid PDF signature")
	}
	size := int64(len(body))
	if size < minSize {
		return fmt.Errorf("PDF too small (%d bytes < %d)", size, minSize)
	}
	if size > maxSize {
		return fmt.Errorf("PDF too large (%d bytes > %d)", size, maxSize)
	}
	return nil
}

// Stats counts ingest outcomes for a run.
type Stats struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
	Errors     map[string]int
}

// Ingestor downloads and validates policy PDFs.
type Ingestor struct {
	cfg     *config.IngestConfig
	client  *http.Client
	catalog Catalog
}

// New creates an ingestor writing documents under cfg.RawDir and
// metadata into catalog.
func New(cfg *config.IngestConfig, catalog Catalog) *Ingestor {
	return &Ingestor{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		catalog: catalog,
	}
}

// Run processes every URL in the input stream. Per-URL failures are
// recorded and counted, never fatal; only input errors and context
// cancellation abort the run.
func (ing *Ingestor) Run(ctx context.Context) (Stats, error) {
	stats := Stats{Errors: make(map[string]int)}

	if err := os.MkdirAll(ing.cfg.RawDir, 0750); err != nil {
		return stats, fmt.Errorf("failed to create raw document directory: %w", err)
	}

	urls, err := store.ReadLines(ing.cfg.InputFile)
	if err != nil {
		return stats, fmt.Errorf("failed to read policy URL stream: %w", err)
	}
	if len(urls) == 0 {
		return stats, fmt.Errorf("%s contains no URLs, run the filter stage first", ing.cfg.InputFile)
	}

	slog.Info("starting ingestion", "urls", len(urls))

	for _, u := range urls {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		stats.Total++
		rec := ing.ingestOne(ctx, u)

		switch {
		case rec.Skipped:
			stats.Skipped++
		case rec.Success:
			stats.Downloaded++
		default:
			stats.Failed++
			stats.Errors[rec.Error]++
		}

		if err := ing.catalog.SaveDocument(rec); err != nil {
			return stats, fmt.Errorf("failed to save metadata for %s: %w", u, err)
		}
	}

	slog.Info("ingestion summary",
		"total", stats.Total,
		"downloaded", stats.Downloaded,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	return stats, nil
}

// ingestOne downloads and validates a single URL. Every outcome is
// reflected in the returned record.
func (ing *Ingestor) ingestOne(ctx context.Context, rawURL string) *DocumentRecord {
	fileName := SafeFilename(rawURL)
	destPath := filepath.Join(ing.cfg.RawDir, fileName)
	rec := newRecord(rawURL, fileName)

	// Already fetched on a previous run: skip without refetching.
	if _, err := os.Stat(destPath); err == nil {
		rec.Success = true
		rec.Skipped = true
		slog.Info("already downloaded, skipping", "file", fileName)
		return rec
	}

	slog.Info("downloading", "file", fileName, "url", rawURL)

	status, contentType, body, err := ing.fetch(ctx, rawURL)
	rec.HTTPStatus = status
	if err != nil {
		rec.Error = fetchErrorText(err, ing.cfg.RequestTimeout)
		slog.Warn("download failed", "file", fileName, "error", rec.Error)
		return rec
	}
	rec.SizeBytes = int64(len(body))

	if status < 200 || status > 299 {
		rec.Error = fmt.Sprintf("HTTP %d", status)
		slog.Warn("download failed", "file", fileName, "error", rec.Error)
		return rec
	}

	if err := ValidatePDF(contentType, body, ing.cfg.MinPDFSize, ing.cfg.MaxPDFSize); err != nil {
		rec.Error = err.Error()
		slog.Warn("validation failed", "file", fileName, "error", rec.Error)
		return rec
	}

	if err := os.WriteFile(destPath, body, 0644); err != nil {
		rec.Error = fmt.Sprintf("write failed: %v", err)
		slog.Error("failed to write document", "file", fileName, "error", err)
		return rec
	}

	rec.Success = true
	slog.Info("downloaded", "file", fileName, "size_bytes", rec.SizeBytes)
	return rec
}

// fetch performs the single download attempt.
func (ing *Ingestor) fetch(ctx context.Context, rawURL string) (status int, contentType string, body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, "", nil, err
	}
	req.Header.Set("User-Agent", ing.cfg.UserAgent)

	resp, err := ing.client.Do(req)
	if err != nil {
		return 0, "", nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err = io.ReadAll(io.LimitReader(resp.Body, ing.cfg.MaxPDFSize+1))
	if err != nil {
		return resp.StatusCode, "", nil, err
	}

	return resp.StatusCode, resp.Header.Get("Content-Type"), body, nil
}

// fetchErrorText turns a transport failure into the short error string
// stored in the catalog.
func fetchErrorText(err error, timeout time.Duration) string {
	switch crawler.ClassifyFetchError(err) {
	case crawler.ErrorTimeout:
		return fmt.Sprintf("Timeout (%s)", timeout)
	case crawler.ErrorConnection:
		return "Connection error"
	default:
		text := err.Error()
		if len(text) > 120 {
			text = text[:120]
		}
		return text
	}
}
