package parser

import (
	"testing"
)

func TestExtractResolvesRelativeLinks(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/policy/home">Home</a>
		<a href="car-policy.pdf">Car</a>
		<a href="https://other.com/pds">External</a>
	</body></html>`)

	links, err := NewLinkExtractor().Extract(body, "https://acme.com/insurance/")
	if err != nil {
		t.Fatalf("Extract() returned error: %v", err)
	}

	want := []string{
		"https://acme.com/policy/home",
		"https://acme.com/insurance/car-policy.pdf",
		"https://other.com/pds",
	}
	if len(links) != len(want) {
		t.Fatalf("Extract() = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestExtractSkipsNonNavigableTargets(t *testing.T) {
	body := []byte(`<html><body>
		<a href="#section">Jump</a>
		<a href="javascript:void(0)">JS</a>
		<a href="mailto:info@acme.com">Mail</a>
		<a href="tel:+6441234567">Call</a>
		<a href="ftp://files.acme.com/a.pdf">FTP</a>
		<a>no href</a>
		<a href="/policy/kept">Kept</a>
	</body></html>`)

	links, err := NewLinkExtractor().Extract(body, "https://acme.com/")
	if err != nil {
		t.Fatalf("Extract() returned error: %v", err)
	}

	if len(links) != 1 || links[0] != "https://acme.com/policy/kept" {
		t.Errorf("Extract() = %v, want only the /policy/kept link", links)
	}
}

func TestExtractToleratesMalformedHTML(t *testing.T) {
	body := []byte(`<html><body><div><a href="/policy/a">unclosed<a href="/policy/b">also`)

	links, err := NewLinkExtractor().Extract(body, "https://acme.com/")
	if err != nil {
		t.Fatalf("Extract() returned error: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("Extract() = %v, want both anchors despite broken markup", links)
	}
}

func TestExtractEmptyBody(t *testing.T) {
	links, err := NewLinkExtractor().Extract(nil, "https://acme.com/")
	if err != nil {
		t.Fatalf("Extract() returned error: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Extract() on empty body = %v, want none", links)
	}
}

func TestExtractInvalidBaseURL(t *testing.T) {
	if _, err := NewLinkExtractor().Extract([]byte("<a href='/x'>x</a>"), "://bad"); err == nil {
		t.Error("Extract() with invalid base URL returned nil error")
	}
}
