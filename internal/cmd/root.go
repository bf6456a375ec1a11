// Package cmd provides the command-line interface for policyscan.
// It handles command parsing, configuration loading, and wiring the
// three pipeline stages together.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/policycheck/policyscan/internal/config"
	"github.com/policycheck/policyscan/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "policyscan",
	Short: "Discover, classify, and retrieve insurer policy PDFs",
	Long: `policyscan is a three-stage pipeline for policy disclosure documents.

crawl   discovers candidate PDF links from insurer websites
filter  keeps the links whose filenames look like policy documents
ingest  downloads, validates, and catalogs the surviving PDFs`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.SetDefault(logging.Config{
			Level:      logging.ParseLevel(logLevel),
			FilePath:   logFile,
			MaxSize:    100,
			MaxBackups: 5,
			Console:    true,
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information for the CLI.
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./policyscan.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file (rotated)")

	rootCmd.AddCommand(newCrawlCommand())
	rootCmd.AddCommand(newFilterCommand())
	rootCmd.AddCommand(newIngestCommand())
	rootCmd.AddCommand(newConfigCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("policyscan")
	}

	viper.SetEnvPrefix("PS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, config file, environment, and flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// bindFlag wires one cobra flag to its viper key, complaining but not
// failing if the binding is impossible.
func bindFlag(cmd *cobra.Command, viperKey, flagName string) {
	if err := viper.BindPFlag(viperKey, cmd.Flags().Lookup(flagName)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", flagName, err)
	}
}

// newConfigCommand shows the effective configuration as YAML.
func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration in YAML format",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
			}

			fmt.Printf("# policyscan configuration, generated %s\n", time.Now().Format(time.RFC3339))
			fmt.Printf("# Sources, highest priority first: flags, PS_* environment, policyscan.yml, defaults\n\n")
			fmt.Print(string(yamlData))
			return nil
		},
	}
}
