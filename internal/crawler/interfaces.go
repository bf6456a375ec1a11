package crawler

import "context"

// Fetcher retrieves a single page over HTTP. Implementations perform
// exactly one attempt; the engine never retries.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResponse, error)
}

// LinkExtractor turns a page body into the absolute hyperlink targets
// found in its anchor elements, resolved against the page's own URL.
type LinkExtractor interface {
	Extract(body []byte, baseURL string) ([]string, error)
}

// SeenStore is a durable, append-only set of URLs shared across runs.
// Add must persist the key before returning and must be atomic with the
// membership check: exactly one concurrent caller observes added=true.
type SeenStore interface {
	Contains(key string) bool
	Add(key string) (added bool, err error)
	Len() int
}

// URLSink receives newly discovered PDF URLs in discovery order.
type URLSink interface {
	Emit(url string) error
}
