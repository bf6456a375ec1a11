// Package parser provides the HTML link-extraction capability consumed
// by the crawl engine: given a page body and its base URL, produce the
// absolute hyperlink targets found in anchor elements.
package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// LinkExtractor extracts anchor targets from HTML documents.
type LinkExtractor struct{}

// NewLinkExtractor creates a link extractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// Extract parses the body and returns every anchor href resolved
// against baseURL, in document order. Fragment-only, javascript:,
// mailto: and tel: targets are skipped, and only http(s) results are
// returned. Malformed HTML degrades to whatever x/net/html recovers.
func (e *LinkExtractor) Extract(body []byte, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if target, ok := resolveAnchor(base, n); ok {
				links = append(links, target)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// resolveAnchor turns one anchor node into an absolute http(s) URL.
func resolveAnchor(base *url.URL, n *html.Node) (string, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}

	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}
