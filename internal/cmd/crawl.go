package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/policycheck/policyscan/internal/crawler"
	"github.com/policycheck/policyscan/internal/parser"
	"github.com/policycheck/policyscan/internal/store"
)

// newCrawlCommand builds the crawl stage subcommand.
func newCrawlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Discover candidate policy PDF links from insurer websites",
		Long: `Crawl runs a per-seed-domain breadth-first traversal, recording visited
pages and discovered PDF URLs in durable seen-set files so interrupted
runs resume without re-fetching anything.`,
		RunE: runCrawl,
	}

	cmd.Flags().StringP("seeds", "s", "seed_insurers.txt", "Seed URL list, one insurer URL per line")
	cmd.Flags().StringP("output", "o", "urls.txt", "PDF output stream")
	cmd.Flags().String("seen-pages", "seen_pages.txt", "Visited page seen-set file")
	cmd.Flags().String("seen-pdfs", "seen_pdfs.txt", "Discovered PDF seen-set file")
	cmd.Flags().IntP("max-pages", "m", 1000, "Page cap per seed domain")
	cmd.Flags().DurationP("delay", "r", 500*time.Millisecond, "Politeness delay between fetches")
	cmd.Flags().DurationP("timeout", "t", 10*time.Second, "HTTP request timeout")
	cmd.Flags().StringP("user-agent", "u", "", "HTTP User-Agent header")
	cmd.Flags().IntP("concurrency", "c", 1, "Seed domains crawled in parallel")

	for _, bind := range []struct{ viperKey, flagName string }{
		{"crawl.seed_file", "seeds"},
		{"crawl.output_file", "output"},
		{"crawl.seen_pages_file", "seen-pages"},
		{"crawl.seen_pdfs_file", "seen-pdfs"},
		{"crawl.max_pages_per_domain", "max-pages"},
		{"crawl.request_delay", "delay"},
		{"crawl.request_timeout", "timeout"},
		{"crawl.user_agent", "user-agent"},
		{"crawl.concurrency", "concurrency"},
	} {
		bindFlag(cmd, bind.viperKey, bind.flagName)
	}

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	crawlCfg := &cfg.Crawl
	if crawlCfg.UserAgent == "" {
		crawlCfg.UserAgent = generateUserAgent()
	}
	if err := crawlCfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seeds, err := crawler.LoadSeeds(crawlCfg.SeedFile)
	if err != nil {
		return err
	}

	pages, err := store.Open(crawlCfg.SeenPagesFile)
	if err != nil {
		return err
	}
	defer func() { _ = pages.Close() }()

	pdfs, err := store.Open(crawlCfg.SeenPDFsFile)
	if err != nil {
		return err
	}
	defer func() { _ = pdfs.Close() }()

	sink, err := store.OpenSink(crawlCfg.OutputFile)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	engine := crawler.NewEngine(crawlCfg, crawler.Stores{
		Pages: pages,
		PDFs:  pdfs,
		Sink:  sink,
	}, parser.NewLinkExtractor())

	return engine.Run(cmd.Context(), seeds)
}

// generateUserAgent derives the default User-Agent from build info.
func generateUserAgent() string {
	if version != "" && version != "dev" {
		return fmt.Sprintf("PolicyScan/%s (+https://policycheck.co.nz)", version)
	}
	return "PolicyScan/1.0 (+https://policycheck.co.nz)"
}
