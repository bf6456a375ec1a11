// Package config provides configuration management for the policy
// document pipeline. It defines per-stage configuration structures and
// the defaults used when no config file or flags are present.
package config

import "time"

// DefaultUserAgent identifies the crawler to target servers.
const DefaultUserAgent = "PolicyScan/1.0 (+https://policycheck.co.nz)"

// CrawlConfig holds the crawl stage configuration.
type CrawlConfig struct {
	// Input/output streams (newline-delimited URLs)
	SeedFile      string `mapstructure:"seed_file" yaml:"seed_file"`             // Seed insurer URLs, one per line
	OutputFile    string `mapstructure:"output_file" yaml:"output_file"`         // Discovered PDF URLs, discovery order
	SeenPagesFile string `mapstructure:"seen_pages_file" yaml:"seen_pages_file"` // Visited page URLs (durable, append-only)
	SeenPDFsFile  string `mapstructure:"seen_pdfs_file" yaml:"seen_pdfs_file"`   // Discovered PDF URLs, normalized (durable, append-only)

	// Path classification
	AllowedPathKeywords []string `mapstructure:"allowed_path_keywords" yaml:"allowed_path_keywords"` // Substrings marking policy-bearing sections
	DeniedPathKeywords  []string `mapstructure:"denied_path_keywords" yaml:"denied_path_keywords"`   // Substrings marking sections to skip

	// URL normalization
	TrackingParams []string `mapstructure:"tracking_params" yaml:"tracking_params"` // Query parameters stripped for dedup

	// Crawl behavior
	MaxPagesPerDomain int           `mapstructure:"max_pages_per_domain" yaml:"max_pages_per_domain"` // Page cap per seed domain
	RequestDelay      time.Duration `mapstructure:"request_delay" yaml:"request_delay"`               // Politeness delay between fetches
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`           // Per-fetch timeout
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`                     // HTTP User-Agent header
	Concurrency       int           `mapstructure:"concurrency" yaml:"concurrency"`                   // Seed domains crawled in parallel
}

// FilterConfig holds the filter stage configuration.
type FilterConfig struct {
	InputFile    string `mapstructure:"input_file" yaml:"input_file"`       // Crawl output stream
	OutputFile   string `mapstructure:"output_file" yaml:"output_file"`     // Accepted policy URLs
	FilteredFile string `mapstructure:"filtered_file" yaml:"filtered_file"` // Rejected URLs

	KeepKeywords []string `mapstructure:"keep_keywords" yaml:"keep_keywords"` // Filename substrings that mark policy documents
	DropKeywords []string `mapstructure:"drop_keywords" yaml:"drop_keywords"` // Filename substrings that mark noise
}

// IngestConfig holds the ingest stage configuration.
type IngestConfig struct {
	InputFile    string `mapstructure:"input_file" yaml:"input_file"`       // Accepted policy URLs
	RawDir       string `mapstructure:"raw_dir" yaml:"raw_dir"`             // Directory for downloaded PDF bytes
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"` // SQLite document catalog

	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // Per-download timeout
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`           // HTTP User-Agent header
	MinPDFSize     int64         `mapstructure:"min_pdf_size" yaml:"min_pdf_size"`       // Reject smaller downloads (bytes)
	MaxPDFSize     int64         `mapstructure:"max_pdf_size" yaml:"max_pdf_size"`       // Reject larger downloads (bytes)
}

// Config is the full pipeline configuration.
type Config struct {
	Crawl  CrawlConfig  `mapstructure:"crawl" yaml:"crawl"`
	Filter FilterConfig `mapstructure:"filter" yaml:"filter"`
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			SeedFile:      "seed_insurers.txt",
			OutputFile:    "urls.txt",
			SeenPagesFile: "seen_pages.txt",
			SeenPDFsFile:  "seen_pdfs.txt",
			AllowedPathKeywords: []string{
				"/insurance",
				"/policy",
				"/policies",
				"/documents",
				"/pds",
				"/product-disclosure",
			},
			DeniedPathKeywords: []string{
				"/drivers/",
				"/membership/",
				"/travel/",
				"/home-services/",
				"/about/",
				"/careers/",
				"/site-info/",
				"/news/",
				"/media/",
				"/blog/",
				"/events/",
				"/rewards/",
				"/partners/",
			},
			TrackingParams: []string{
				"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term",
				"gclid", "fbclid", "v", "version", "ref", "download", "format",
			},
			MaxPagesPerDomain: 1000,
			RequestDelay:      500 * time.Millisecond,
			RequestTimeout:    10 * time.Second,
			UserAgent:         DefaultUserAgent,
			Concurrency:       1,
		},
		Filter: FilterConfig{
			InputFile:    "urls.txt",
			OutputFile:   "policy_urls.txt",
			FilteredFile: "filtered_out_urls.txt",
			KeepKeywords: []string{
				"policy",
				"pds",
				"product-disclosure",
				"tmd",
				"policy-wording",
				"policy-document",
				"schedule",
				"insurance",
			},
			DropKeywords: []string{
				"form",
				"application",
				"claim",
				"guide",
				"fsg",
				"brochure",
				"fact-sheet",
				"statement",
				"authority",
				"privacy",
				"terms",
				"cookies",
				"media",
				"news",
				"blog",
			},
		},
		Ingest: IngestConfig{
			InputFile:      "policy_urls.txt",
			RawDir:         "raw_documents",
			DatabasePath:   "./policyscan.db",
			RequestTimeout: 30 * time.Second,
			UserAgent:      DefaultUserAgent,
			MinPDFSize:     20 * 1024,
			MaxPDFSize:     100 * 1024 * 1024,
		},
	}
}

// Validate checks the crawl stage configuration.
func (c *CrawlConfig) Validate() error {
	if c.SeedFile == "" {
		return ErrEmptySeedFile
	}
	if c.OutputFile == "" || c.SeenPagesFile == "" || c.SeenPDFsFile == "" {
		return ErrEmptyStorePath
	}
	if c.MaxPagesPerDomain <= 0 {
		return ErrInvalidPageCap
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestDelay < 0 {
		return ErrInvalidDelay
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// Validate checks the filter stage configuration.
func (c *FilterConfig) Validate() error {
	if c.InputFile == "" || c.OutputFile == "" || c.FilteredFile == "" {
		return ErrEmptyStorePath
	}
	return nil
}

// Validate checks the ingest stage configuration.
func (c *IngestConfig) Validate() error {
	if c.InputFile == "" {
		return ErrEmptyStorePath
	}
	if c.RawDir == "" {
		return ErrEmptyRawDir
	}
	if c.DatabasePath == "" {
		return ErrEmptyDatabasePath
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MinPDFSize < 0 || c.MaxPDFSize <= 0 || c.MinPDFSize >= c.MaxPDFSize {
		return ErrInvalidSizeRange
	}
	return nil
}
