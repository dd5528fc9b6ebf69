// Package app glues the indexing core to its external collaborators: it
// resolves CLI-level configuration into build/crawl/search phases and
// writes their JSON output. Adapted from the teacher's App, which wired a
// single article fetcher into a word counter; this App dispatches to
// whichever phases the configuration enables and never aborts a run
// because one phase or one unit of work failed - a phase that cannot even
// start is reported on stderr and skipped, matching §7's best-effort
// propagation policy.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shoresh319/jsearch/internal/build"
	"github.com/shoresh319/jsearch/internal/crawl"
	"github.com/shoresh319/jsearch/internal/index"
	"github.com/shoresh319/jsearch/internal/jsonio"
	"github.com/shoresh319/jsearch/internal/search"
	"github.com/shoresh319/jsearch/internal/server"
	"github.com/shoresh319/jsearch/internal/stopwords"
)

// Config is the fully-resolved configuration for a single run. Defaulting
// of the CLI-facing knobs (threads, limit) happens in New, mirroring the
// teacher's "fill in zero values" pattern in the original App.New.
type Config struct {
	// Ingest: exactly one of Path or URL is expected to be set per run,
	// though both are accepted - Path is built first, then URL crawled
	// into the same index.
	Path string
	URL  string

	Threads int
	Limit   int

	WriteIndex  bool
	IndexPath   string
	WriteCounts bool
	CountsPath  string

	QueryPath    string
	Exact        bool
	WriteResults bool
	ResultsPath  string

	StopwordsPath string

	Serve     bool
	ServeAddr string

	HTTPClient           *http.Client
	RetryMax             int
	RetryWaitMin         time.Duration
	RetryWaitMax         time.Duration
	ConcurrencyPerDomain int
}

// App runs the configured phases against a single shared index.
type App struct {
	cfg Config
	idx *index.ThreadSafeIndex
}

// New resolves defaults and constructs an App.
func New(cfg Config) *App {
	if cfg.Threads < 1 {
		cfg.Threads = 5
	}
	if cfg.Limit < 1 {
		cfg.Limit = 50
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.RetryMax == 0 {
		cfg.RetryMax = 3
	}
	if cfg.RetryWaitMin == 0 {
		cfg.RetryWaitMin = 1 * time.Second
	}
	if cfg.RetryWaitMax == 0 {
		cfg.RetryWaitMax = 5 * time.Second
	}
	if cfg.ConcurrencyPerDomain == 0 {
		cfg.ConcurrencyPerDomain = 3
	}
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = ":8080"
	}

	return &App{cfg: cfg, idx: index.NewThreadSafe()}
}

// Run executes every enabled phase in order: build, crawl, query, then
// writes whichever JSON outputs were requested. Per-unit failures are
// logged by the phase itself and never stop the run; a phase that cannot
// even start (e.g. the query file is missing) is reported on stderr and
// skipped. Run always returns nil.
func (a *App) Run(ctx context.Context) error {
	stop := stopwords.Empty()
	if a.cfg.StopwordsPath != "" {
		loaded, err := stopwords.Load(ctx, a.cfg.StopwordsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jsearch: load stopwords: %v\n", err)
		} else {
			stop = loaded
		}
	}

	if a.cfg.Serve {
		srv := server.New(a.cfg.ServeAddr, a.idx)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "jsearch: serve: %v\n", err)
			}
		}()
		defer srv.Close()
	}

	if a.cfg.Path != "" {
		builder := build.New(build.WithThreads(a.cfg.Threads), build.WithStopwords(stop))
		if err := builder.Build(ctx, a.cfg.Path, a.idx); err != nil {
			fmt.Fprintf(os.Stderr, "jsearch: build %s: %v\n", a.cfg.Path, err)
		}
	}

	if a.cfg.URL != "" {
		fetcher := crawl.NewFetcher(crawl.FetchConfig{
			HTTPClient:           a.cfg.HTTPClient,
			RetryMax:             a.cfg.RetryMax,
			RetryWaitMin:         a.cfg.RetryWaitMin,
			RetryWaitMax:         a.cfg.RetryWaitMax,
			ConcurrencyPerDomain: a.cfg.ConcurrencyPerDomain,
		})
		crawler := crawl.New(fetcher, a.idx, a.cfg.Threads)
		if err := crawler.Run(ctx, a.cfg.URL, a.cfg.Limit); err != nil {
			fmt.Fprintf(os.Stderr, "jsearch: crawl %s: %v\n", a.cfg.URL, err)
		}
	}

	var results map[string][]index.SearchResult
	if a.cfg.QueryPath != "" {
		runner := search.New(search.WithThreads(a.cfg.Threads))
		rs, err := runner.RunQueries(ctx, a.cfg.QueryPath, a.cfg.Exact, a.idx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jsearch: query %s: %v\n", a.cfg.QueryPath, err)
		} else {
			results = rs.All()
		}
	}

	a.writeOutputs(results)
	return nil
}

func (a *App) writeOutputs(results map[string][]index.SearchResult) {
	if a.cfg.WriteIndex {
		a.writeJSON(a.cfg.IndexPath, func(f *os.File) error { return jsonio.WriteIndex(f, a.idx) })
	}
	if a.cfg.WriteCounts {
		a.writeJSON(a.cfg.CountsPath, func(f *os.File) error { return jsonio.WriteCounts(f, a.idx) })
	}
	if a.cfg.WriteResults && results != nil {
		a.writeJSON(a.cfg.ResultsPath, func(f *os.File) error { return jsonio.WriteResults(f, results) })
	}
}

func (a *App) writeJSON(path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsearch: create %s: %v\n", path, err)
		return
	}
	defer f.Close()
	if err := write(f); err != nil {
		fmt.Fprintf(os.Stderr, "jsearch: write %s: %v\n", path, err)
	}
}
