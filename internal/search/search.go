// Package search implements the query-batch runner: reading a file of
// free-text queries, stemming and canonicalizing each line, de-duplicating
// repeated queries, and accumulating ranked results per canonical query
// key. Orchestration is adapted from the teacher's App.Run, generalized
// from a single word-count pass to a map of per-query ranked results.
package search

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/shoresh319/jsearch/internal/index"
	"github.com/shoresh319/jsearch/internal/stem"
	"github.com/shoresh319/jsearch/internal/workqueue"
)

// ResultSet maps each distinct canonical query key to its ranked results.
type ResultSet struct {
	mu      sync.Mutex
	results map[string][]index.SearchResult
}

func newResultSet() *ResultSet {
	return &ResultSet{results: make(map[string][]index.SearchResult)}
}

// has reports whether key is already present, and if not, reserves it so
// concurrent workers racing on the same query only compute it once. The
// check and the reservation happen under the same lock.
func (r *ResultSet) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.results[key]
	if !ok {
		r.results[key] = nil // reserve
	}
	return ok
}

func (r *ResultSet) set(key string, results []index.SearchResult) {
	r.mu.Lock()
	r.results[key] = results
	r.mu.Unlock()
}

// Keys returns every canonical query key, sorted.
func (r *ResultSet) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.results))
	for k := range r.results {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns the ranked results for a canonical query key.
func (r *ResultSet) Get(key string) []index.SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[key]
}

// All returns a snapshot of the full results map.
func (r *ResultSet) All() map[string][]index.SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]index.SearchResult, len(r.results))
	for k, v := range r.results {
		out[k] = v
	}
	return out
}

// Runner executes a batch of queries against an index.
type Runner struct {
	threads int
}

// Option configures a Runner.
type Option func(*Runner)

// WithThreads sets the worker count for multi-threaded query runs. A count
// of 1 or less runs every query on the calling goroutine.
func WithThreads(n int) Option {
	return func(r *Runner) { r.threads = n }
}

// New constructs a Runner. The default is single-threaded.
func New(opts ...Option) *Runner {
	r := &Runner{threads: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunQueries reads queryFilePath line by line, stems and canonicalizes
// each line into a sorted unique stem set, skips empty and already-seen
// canonical keys, and searches the index for the rest. A malformed line
// can never occur here - every line is just text - so the only failure
// that aborts the whole run is the file itself failing to open.
func (r *Runner) RunQueries(ctx context.Context, queryFilePath string, exact bool, idx *index.ThreadSafeIndex) (*ResultSet, error) {
	f, err := os.Open(queryFilePath)
	if err != nil {
		return nil, fmt.Errorf("open query file: %w", err)
	}
	defer f.Close()

	results := newResultSet()

	var wq *workqueue.WorkQueue
	if r.threads > 1 {
		wq = workqueue.New(r.threads)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if wq == nil {
			r.runOne(line, exact, idx, results)
			continue
		}
		l := line
		wq.Submit(func() { r.runOne(l, exact, idx, results) })
	}
	if err := scanner.Err(); err != nil {
		log.Printf("search: read query file %s: %v", queryFilePath, err)
	}

	if wq != nil {
		wq.Await()
		wq.Shutdown()
	}
	return results, nil
}

func (r *Runner) runOne(line string, exact bool, idx *index.ThreadSafeIndex, results *ResultSet) {
	stems := canonicalStems(line)
	if len(stems) == 0 {
		return
	}
	key := strings.Join(stems, " ")
	if results.has(key) {
		return
	}
	results.set(key, idx.Search(stems, exact))
}

// canonicalStems stems every token in line and returns the sorted, unique
// set of resulting stems.
func canonicalStems(line string) []string {
	seen := make(map[string]struct{})
	for _, s := range stem.TokenizeStem(line) {
		seen[s] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
