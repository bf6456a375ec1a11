package crawler

import "testing"

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"lowercase passthrough", "acme.com", "acme.com"},
		{"uppercase", "ACME.COM", "acme.com"},
		{"www prefix", "www.acme.com", "acme.com"},
		{"www prefix uppercase", "WWW.Acme.com", "acme.com"},
		{"only one www stripped", "www.www.acme.com", "www.acme.com"},
		{"www not a prefix", "wwwacme.com", "wwwacme.com"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDomain(tt.host); got != tt.expected {
				t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.host, got, tt.expected)
			}
		})
	}
}

func TestNormalizeDomainIdempotent(t *testing.T) {
	hosts := []string{"www.acme.com", "ACME.com", "www.www.x.org", "x.co.nz"}
	for _, host := range hosts {
		once := NormalizeDomain(host)
		twice := NormalizeDomain(once)
		if once != twice {
			t.Errorf("NormalizeDomain not idempotent for %q: %q != %q", host, once, twice)
		}
	}
}

func TestSameDomain(t *testing.T) {
	tests := []struct {
		name      string
		seed      string
		candidate string
		expected  bool
	}{
		{"www vs bare", "https://www.acme.com/a", "http://acme.com/b", true},
		{"identical", "https://acme.com", "https://acme.com/x", true},
		{"different port still same", "https://acme.com/a", "https://acme.com:8443/b", true},
		{"different scheme still same", "https://acme.com/a", "http://acme.com/b", true},
		{"different domain", "https://acme.com/a", "https://other.com/b", false},
		{"subdomain is different", "https://acme.com/a", "https://shop.acme.com/b", false},
		{"empty candidate host", "https://acme.com/a", "/relative/path", false},
		{"unparsable seed", "https://acme.com/a\x7f%", "https://acme.com/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDomain(tt.seed, tt.candidate); got != tt.expected {
				t.Errorf("SameDomain(%q, %q) = %v, want %v", tt.seed, tt.candidate, got, tt.expected)
			}
		})
	}
}

func TestIsPDFLink(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"plain pdf", "https://x.com/doc.pdf", true},
		{"uppercase extension", "https://x.com/doc.PDF?v=2", true},
		{"query ignored", "https://x.com/doc.pdf?download=1&id=7", true},
		{"fragment ignored", "https://x.com/doc.pdf#page=3", true},
		{"pdf not at path end", "https://x.com/doc.pdf.html", false},
		{"html page", "https://x.com/doc.html", false},
		{"pdf only in query", "https://x.com/view?file=doc.pdf", false},
		{"no extension", "https://x.com/documents/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPDFLink(tt.url); got != tt.expected {
				t.Errorf("IsPDFLink(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestNormalizeStripsTracking(t *testing.T) {
	n := NewNormalizer([]string{"utm_source", "utm_medium", "gclid", "ref", "v"})

	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "single tracking param removed",
			url:      "https://x.com/p.pdf?utm_source=x&id=7",
			expected: "https://x.com/p.pdf?id=7",
		},
		{
			name:     "all params tracking",
			url:      "https://x.com/p.pdf?utm_source=a&gclid=b",
			expected: "https://x.com/p.pdf",
		},
		{
			name:     "tracking match is case-insensitive",
			url:      "https://x.com/p.pdf?UTM_Source=a&id=1",
			expected: "https://x.com/p.pdf?id=1",
		},
		{
			name:     "fragment dropped",
			url:      "https://x.com/p.pdf#section-2",
			expected: "https://x.com/p.pdf",
		},
		{
			name:     "param order preserved",
			url:      "https://x.com/p?b=2&a=1&c=3",
			expected: "https://x.com/p?b=2&a=1&c=3",
		},
		{
			name:     "repeated keys preserved in order",
			url:      "https://x.com/p?a=1&ref=z&a=2",
			expected: "https://x.com/p?a=1&a=2",
		},
		{
			name:     "blank value kept",
			url:      "https://x.com/p?a=&utm_medium=m",
			expected: "https://x.com/p?a=",
		},
		{
			name:     "no query untouched",
			url:      "https://x.com/policy/home.pdf",
			expected: "https://x.com/policy/home.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.url); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer([]string{"utm_source", "ref"})

	urls := []string{
		"https://x.com/p.pdf?utm_source=x&id=7",
		"https://x.com/p?q=a+b&ref=c",
		"https://x.com/p#frag",
		"https://x.com/p?a=%2Fslash%2F",
		"HTTPS://X.com/Path",
		"://not-a-url",
		"",
	}

	for _, u := range urls {
		once := n.Normalize(u)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

func TestNormalizeTotalOnMalformedInput(t *testing.T) {
	n := NewNormalizer(nil)

	// Inputs that url.Parse rejects must come back unchanged, never panic.
	malformed := []string{
		"://missing-scheme",
		"http://x.com/%zz\x7f",
		"ht tp://spaces",
	}
	for _, u := range malformed {
		if got := n.Normalize(u); got != u {
			t.Errorf("Normalize(%q) = %q, want input unchanged", u, got)
		}
	}
}

func TestPathClassifier(t *testing.T) {
	classifier := NewPathClassifier(
		[]string{"/policy", "/pds", "/product-disclosure"},
		[]string{"/news/", "/careers/"},
	)

	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"allow keyword", "https://x.com/policy/home", true},
		{"allow keyword in query", "https://x.com/docs?section=/policy", true},
		{"case-insensitive match", "https://x.com/Policy/Home", true},
		{"no keyword", "https://x.com/contact", false},
		{"deny keyword", "https://x.com/news/latest", false},
		{"deny beats allow", "https://x.com/news/policy-update", false},
		{"second allow keyword", "https://x.com/pds/home", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.IsAllowed(tt.url); got != tt.expected {
				t.Errorf("IsAllowed(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}
