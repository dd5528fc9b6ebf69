// Command jsearch builds a positional inverted index from a local directory
// tree or a crawled website, optionally runs a batch of queries against it,
// and writes whichever JSON artifacts were requested. It is the CLI driver
// for the packages under internal/: see internal/app for the orchestration
// this command configures and runs.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shoresh319/jsearch/internal/app"
)

var cfg app.Config

var rootCmd = &cobra.Command{
	Use:   "jsearch",
	Short: "Build and query a concurrent positional inverted index",
	Long: `jsearch indexes plain-text files under a directory, or pages reachable
from a seed URL, into a positional inverted index, then answers exact or
partial-prefix queries against it.

Examples:
  jsearch --path ./corpus --index out/index.json
  jsearch --url https://example.com --limit 25 --counts out/counts.json
  jsearch --path ./corpus --query queries.txt --results out/results.json`,
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfg.Path, "path", "", "root directory to index")
	flags.StringVar(&cfg.URL, "url", "", "seed URL to crawl and index")
	flags.IntVar(&cfg.Threads, "threads", 5, "worker count for build, crawl, and query phases")
	flags.IntVar(&cfg.Limit, "limit", 50, "maximum number of pages to crawl beyond the seed URL, which is always crawled")

	flags.String("index", "", "write the full index to this path (default index.json if flag given with no value)")
	flags.Lookup("index").NoOptDefVal = "index.json"

	flags.String("counts", "", "write per-location word counts to this path (default counts.json if flag given with no value)")
	flags.Lookup("counts").NoOptDefVal = "counts.json"

	flags.StringVar(&cfg.QueryPath, "query", "", "file of newline-separated queries to run")
	flags.BoolVar(&cfg.Exact, "exact", false, "require exact stem matches instead of prefix matches")

	flags.String("results", "", "write query results to this path (default results.json if flag given with no value)")
	flags.Lookup("results").NoOptDefVal = "results.json"

	flags.StringVar(&cfg.StopwordsPath, "stopwords", "", "file of newline-separated stopwords to exclude when indexing --path files (crawled pages are not filtered)")

	flags.BoolVar(&cfg.Serve, "serve", false, "expose a liveness endpoint while the run executes")
	flags.StringVar(&cfg.ServeAddr, "serve-addr", ":8080", "address for --serve")

	flags.IntVar(&cfg.RetryMax, "retry-max", 3, "maximum HTTP retries per crawl request")
	flags.IntVar(&cfg.ConcurrencyPerDomain, "domain-concurrency", 3, "maximum concurrent requests per crawled domain")
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	if flags.Changed("index") {
		cfg.WriteIndex = true
		cfg.IndexPath, _ = flags.GetString("index")
	}
	if flags.Changed("counts") {
		cfg.WriteCounts = true
		cfg.CountsPath, _ = flags.GetString("counts")
	}
	if flags.Changed("results") {
		cfg.WriteResults = true
		cfg.ResultsPath, _ = flags.GetString("results")
	}

	if cfg.Path == "" && cfg.URL == "" {
		return fmt.Errorf("one of --path or --url is required")
	}

	cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	cfg.RetryWaitMin = time.Second
	cfg.RetryWaitMax = 5 * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.New(cfg).Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jsearch: %v\n", err)
		os.Exit(1)
	}
}
