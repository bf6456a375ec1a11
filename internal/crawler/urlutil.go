package crawler

import (
	"net/url"
	"strings"
)

// NormalizeDomain lowercases a hostname and strips a single leading
// "www." prefix. The result is the identity used for same-domain checks.
func NormalizeDomain(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// SameDomain reports whether two URLs share a normalized domain.
// Scheme and port are ignored: https://www.acme.com and http://acme.com:8080
// are the same domain. Unparsable URLs never match anything.
func SameDomain(seedURL, candidateURL string) bool {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return false
	}
	candidate, err := url.Parse(candidateURL)
	if err != nil {
		return false
	}

	seedDomain := NormalizeDomain(seed.Hostname())
	if seedDomain == "" {
		return false
	}
	return seedDomain == NormalizeDomain(candidate.Hostname())
}

// IsPDFLink reports whether the URL's path component ends with ".pdf",
// ignoring query string and fragment, case-insensitive.
func IsPDFLink(rawURL string) bool {
	path := strings.ToLower(rawURL)
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(path, ".pdf")
}

// queryPair is a single key/value pair from a query string, kept in
// encounter order so normalization is deterministic.
type queryPair struct {
	key   string
	value string
}

// parseQuery splits a raw query string into ordered pairs. Blank values
// are kept ("?a=" and "?a" both yield an empty value). Components that
// fail to unescape are used as-is rather than dropped.
func parseQuery(rawQuery string) []queryPair {
	if rawQuery == "" {
		return nil
	}

	var pairs []queryPair
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		pairs = append(pairs, queryPair{key: key, value: value})
	}
	return pairs
}

// encodeQuery re-encodes pairs in their original order.
func encodeQuery(pairs []queryPair) string {
	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.value))
	}
	return b.String()
}

// Normalizer canonicalizes URLs for dedup. It strips fragments and a
// configured set of tracking query parameters while preserving the
// order of the remaining parameters.
type Normalizer struct {
	tracking map[string]struct{}
}

// NewNormalizer builds a Normalizer from a tracking-parameter denylist.
// Matching is case-insensitive.
func NewNormalizer(trackingParams []string) *Normalizer {
	tracking := make(map[string]struct{}, len(trackingParams))
	for _, param := range trackingParams {
		tracking[strings.ToLower(param)] = struct{}{}
	}
	return &Normalizer{tracking: tracking}
}

// Normalize returns the canonical form of rawURL. It is pure and total:
// a URL that cannot be parsed is returned unchanged, so Normalize is
// idempotent on every input.
func (n *Normalizer) Normalize(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Fragment = ""
	parsed.RawFragment = ""

	if parsed.RawQuery != "" {
		kept := make([]queryPair, 0, 4)
		for _, pair := range parseQuery(parsed.RawQuery) {
			if _, drop := n.tracking[strings.ToLower(pair.key)]; drop {
				continue
			}
			kept = append(kept, pair)
		}
		parsed.RawQuery = encodeQuery(kept)
	}

	return parsed.String()
}

// PathClassifier decides whether a page URL looks like it belongs to a
// policy-bearing site section and is worth crawling. It never judges
// PDFs; that is the filter stage's job.
type PathClassifier struct {
	allow []string
	deny  []string
}

// NewPathClassifier builds a classifier from allow/deny keyword lists.
// Keywords are matched as lowercase substrings of the full URL.
func NewPathClassifier(allow, deny []string) *PathClassifier {
	lower := func(keywords []string) []string {
		out := make([]string, len(keywords))
		for i, kw := range keywords {
			out[i] = strings.ToLower(kw)
		}
		return out
	}
	return &PathClassifier{allow: lower(allow), deny: lower(deny)}
}

// IsAllowed reports whether the URL should be enqueued for crawling.
// Deny keywords are checked first and short-circuit; otherwise at least
// one allow keyword must match.
func (c *PathClassifier) IsAllowed(rawURL string) bool {
	u := strings.ToLower(rawURL)

	for _, kw := range c.deny {
		if strings.Contains(u, kw) {
			return false
		}
	}
	for _, kw := range c.allow {
		if strings.Contains(u, kw) {
			return true
		}
	}
	return false
}
