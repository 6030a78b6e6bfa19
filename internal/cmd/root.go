// Package cmd provides the command-line interface for sitegrep.
// It handles flag parsing, configuration loading, and crawl execution.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"sitegrep/internal/config"
	"sitegrep/internal/crawler"
	"sitegrep/internal/logging"
	"sitegrep/internal/render"
	"sitegrep/internal/storage"
)

var (
	cfgFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sitegrep START_URL",
	Short: "Render-aware site crawler with keyword tallies",
	Long: `sitegrep crawls a single site breadth-first, rendering each page in
headless Chrome so JavaScript-driven content is included, and reports
the word count and whole-word keyword matches of every page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCrawl,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under ctx so signals cancel the
// crawl gracefully.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sitegrep.yml)")

	rootCmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")

	// Crawl scope and budget
	rootCmd.Flags().StringSliceP("keywords", "k", []string{}, "Keywords to tally (comma-separated)")
	rootCmd.Flags().IntP("max-pages", "m", 10, "Maximum number of pages to crawl")
	rootCmd.Flags().Bool("subdomains", false, "Treat subdomains of the start host as in scope")

	// Timing
	rootCmd.Flags().DurationP("page-timeout", "t", 20*time.Second, "Per-page render timeout")
	rootCmd.Flags().Duration("global-timeout", 10*time.Minute, "Wall-clock budget for the whole crawl")
	rootCmd.Flags().DurationP("delay", "r", 500*time.Millisecond, "Delay between page renders")

	// Matching
	rootCmd.Flags().Bool("case-sensitive", false, "Match keywords case-sensitively")

	// Rendering
	rootCmd.Flags().StringP("user-agent", "u", "SiteGrep/1.0", "Browser User-Agent header")
	rootCmd.Flags().String("chrome-path", "", "Path to Chrome/Chromium binary (auto-detected if empty)")
	rootCmd.Flags().Bool("headless", true, "Run the browser headless")

	// Database
	rootCmd.Flags().StringP("database", "d", "./sitegrep.db", "Path to SQLite database file")

	// Logging
	rootCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().String("log-file", "", "Log file path (console only if empty)")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"keywords", "keywords"},
		{"max_pages", "max-pages"},
		{"include_subdomains", "subdomains"},
		{"page_timeout", "page-timeout"},
		{"global_timeout", "global-timeout"},
		{"request_delay", "delay"},
		{"case_sensitive", "case-sensitive"},
		{"user_agent", "user-agent"},
		{"chrome_path", "chrome-path"},
		{"headless", "headless"},
		{"database_path", "database"},
		{"log_level", "log-level"},
		{"log_file", "log-file"},
	}

	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("sitegrep")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func generateUserAgent() string {
	if version != "" && version != "dev" {
		return fmt.Sprintf("SiteGrep/%s", version)
	}
	return "SiteGrep/dev"
}

func showCurrentConfig(cfg *config.CrawlConfig) error {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: configuration validation failed: %v\n\n", err)
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Printf("# Current sitegrep configuration\n")
	fmt.Printf("# Config file search path: ./sitegrep.yml, env prefix: SG_\n\n")
	fmt.Print(string(yamlData))
	return nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	showConfig, _ := cmd.Flags().GetBool("show-config")

	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.StartURL = args[0]
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Positional argument wins over any start_url in the config file
	if len(args) > 0 {
		cfg.StartURL = args[0]
	}

	if !cmd.Flags().Changed("user-agent") && cfg.UserAgent == "SiteGrep/1.0" {
		cfg.UserAgent = generateUserAgent()
	}

	if showConfig {
		return showCurrentConfig(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := viper.GetString("log_level")
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(logLevel)
	logCfg.FilePath = viper.GetString("log_file")
	if err := logging.SetDefault(logCfg); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	renderer := render.NewChromeRenderer(render.Options{
		UserAgent:  cfg.UserAgent,
		ChromePath: cfg.ChromePath,
		Headless:   cfg.Headless,
	})
	defer func() { _ = renderer.Close() }()

	c, err := crawler.NewCrawler(cfg, renderer, store)
	if err != nil {
		return fmt.Errorf("failed to initialize crawler: %w", err)
	}

	report, err := c.Run(cmd.Context())
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// printReport writes the per-page results and run summary to stdout.
func printReport(report *crawler.Report) {
	fmt.Printf("Crawl report for %s\n", report.Summary.Scope)

	for _, page := range report.Pages {
		if page.Status != crawler.StatusOK {
			fmt.Printf("  %s  [%s] %s\n", page.URL, page.Status, page.ErrorDetail)
			continue
		}

		keywords := make([]string, 0, len(page.Matches))
		for kw := range page.Matches {
			keywords = append(keywords, kw)
		}
		sort.Strings(keywords)

		parts := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			parts = append(parts, fmt.Sprintf("%s=%d", kw, page.Matches[kw]))
		}

		fmt.Printf("  %s  words=%d  %s\n", page.URL, page.WordCount, strings.Join(parts, " "))
	}

	fmt.Printf("Pages attempted: %d, ok: %d, elapsed: %s\n",
		report.Summary.PagesAttempted,
		report.Summary.PagesOK,
		report.Summary.Elapsed.Round(time.Millisecond))
}
