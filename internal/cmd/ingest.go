package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/policycheck/policyscan/internal/ingest"
	"github.com/policycheck/policyscan/internal/storage"
)

// newIngestCommand builds the ingest stage subcommand.
func newIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Download, validate, and catalog the accepted policy PDFs",
		Long: `Ingest fetches each accepted policy URL once, validates the response
(Content-Type, %PDF signature, size bounds), stores the raw bytes, and
records a metadata row in the SQLite document catalog. Already-present
documents are skipped without re-fetching.`,
		RunE: runIngest,
	}

	cmd.Flags().StringP("input", "i", "policy_urls.txt", "Accepted policy URL stream to read")
	cmd.Flags().String("raw-dir", "raw_documents", "Directory for downloaded PDF bytes")
	cmd.Flags().StringP("database", "d", "./policyscan.db", "Path to SQLite document catalog")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "Per-download timeout")
	cmd.Flags().Int64("min-size", 20*1024, "Reject PDFs smaller than this many bytes")
	cmd.Flags().Int64("max-size", 100*1024*1024, "Reject PDFs larger than this many bytes")
	cmd.Flags().StringP("user-agent", "u", "", "HTTP User-Agent header")

	for _, bind := range []struct{ viperKey, flagName string }{
		{"ingest.input_file", "input"},
		{"ingest.raw_dir", "raw-dir"},
		{"ingest.database_path", "database"},
		{"ingest.request_timeout", "timeout"},
		{"ingest.min_pdf_size", "min-size"},
		{"ingest.max_pdf_size", "max-size"},
		{"ingest.user_agent", "user-agent"},
	} {
		bindFlag(cmd, bind.viperKey, bind.flagName)
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ingestCfg := &cfg.Ingest
	if ingestCfg.UserAgent == "" {
		ingestCfg.UserAgent = generateUserAgent()
	}
	if err := ingestCfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(ingestCfg.DatabasePath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	catalog, err := storage.NewSQLiteCatalog(ingestCfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open document catalog: %w", err)
	}
	defer func() { _ = catalog.Close() }()

	stats, err := ingest.New(ingestCfg, catalog).Run(cmd.Context())
	if err != nil {
		return err
	}

	if stats.Downloaded > 0 {
		fmt.Printf("Downloaded %d PDFs (%d skipped, %d failed)\n",
			stats.Downloaded, stats.Skipped, stats.Failed)
	}
	if stats.Failed > 0 {
		fmt.Printf("%d downloads failed, see logs for details\n", stats.Failed)
	}
	return nil
}
