// Command policyscan discovers, filters, and ingests insurer policy
// disclosure PDFs.
package main

import (
	"fmt"
	"os"

	"github.com/policycheck/policyscan/internal/cmd"
)

// Version information set by build flags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd.SetVersionInfo(Version, BuildTime)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
