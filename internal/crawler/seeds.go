package crawler

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSeeds is returned when the seed list exists but contains no URLs.
var ErrNoSeeds = errors.New("seed list contains no URLs")

// LoadSeeds reads the seed URL list: one absolute URL per line, blank
// lines and lines starting with '#' ignored. A missing or empty file is
// an input error that halts the stage before any work begins.
func LoadSeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var seeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSeeds)
	}
	return seeds, nil
}
