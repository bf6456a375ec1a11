package config

import "errors"

var (
	// ErrEmptySeedFile is returned when the seed file path is empty
	ErrEmptySeedFile = errors.New("seed_file cannot be empty")
	// ErrEmptyStorePath is returned when a stream or store path is empty
	ErrEmptyStorePath = errors.New("stream and store paths cannot be empty")
	// ErrInvalidPageCap is returned when the per-domain page cap is not positive
	ErrInvalidPageCap = errors.New("max_pages_per_domain must be greater than 0")
	// ErrInvalidTimeout is returned when a request timeout is not positive
	ErrInvalidTimeout = errors.New("request_timeout must be greater than 0")
	// ErrInvalidDelay is returned when the politeness delay is negative
	ErrInvalidDelay = errors.New("request_delay cannot be negative")
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be greater than 0")
	// ErrEmptyRawDir is returned when the raw document directory is empty
	ErrEmptyRawDir = errors.New("raw_dir cannot be empty")
	// ErrEmptyDatabasePath is returned when the catalog path is empty
	ErrEmptyDatabasePath = errors.New("database_path cannot be empty")
	// ErrInvalidSizeRange is returned when the PDF size bounds are inconsistent
	ErrInvalidSizeRange = errors.New("min_pdf_size must be non-negative and less than max_pdf_size")
)
