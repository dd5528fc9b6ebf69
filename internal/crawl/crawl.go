// Package crawl implements the bounded concurrent web crawl: a BFS over
// HTML pages, reachable from a seed URL, feeding plain text into a shared
// inverted index via the same local-index/addAll merge pattern the file
// builder uses.
package crawl

import (
	"context"
	"log"
	"net/url"
	"sync"

	"github.com/shoresh319/jsearch/internal/htmlutil"
	"github.com/shoresh319/jsearch/internal/index"
	"github.com/shoresh319/jsearch/internal/stem"
	"github.com/shoresh319/jsearch/internal/workqueue"
)

// HTMLFetcher is the external HTML-fetch collaborator the crawler depends
// on. It is satisfied by *Fetcher in production and by fakes in tests.
type HTMLFetcher interface {
	Fetch(ctx context.Context, urlStr string) (body string, ok bool, err error)
}

// Crawler runs a single bounded BFS crawl. It is safe for exactly one call
// to Run - create a new Crawler per crawl job, which also gives each job
// its own budget/seen monitor instead of sharing one process-wide lock.
type Crawler struct {
	fetcher HTMLFetcher
	shared  *index.ThreadSafeIndex
	workers int

	mu     sync.Mutex
	seen   map[string]struct{}
	budget int
}

// New constructs a Crawler that indexes discovered pages into shared using
// workers concurrent crawl tasks.
func New(fetcher HTMLFetcher, shared *index.ThreadSafeIndex, workers int) *Crawler {
	if workers < 1 {
		workers = 1
	}
	return &Crawler{
		fetcher: fetcher,
		shared:  shared,
		workers: workers,
		seen:    make(map[string]struct{}),
	}
}

// Run crawls from seedURL, submitting up to budget additional crawl tasks
// for discovered links and indexing every successfully fetched page. The
// seed itself is always fetched and indexed exactly once, independent of
// budget: budget bounds only the BFS expansion beyond the seed.
func (c *Crawler) Run(ctx context.Context, seedURL string, budget int) error {
	c.budget = budget

	seed, err := htmlutil.CleanURL(seedURL)
	if err != nil {
		log.Printf("crawl: malformed seed url %q: %v", seedURL, err)
		return nil
	}

	body, ok, err := c.fetcher.Fetch(ctx, seed)
	if err != nil {
		log.Printf("crawl: fetch seed %s: %v", seed, err)
		return nil
	}
	if !ok {
		log.Printf("crawl: seed %s did not return HTML", seed)
		return nil
	}

	seedBase, _ := url.Parse(seed)
	links, err := htmlutil.ExtractLinks(body, seedBase)
	if err != nil {
		log.Printf("crawl: extract links from seed %s: %v", seed, err)
		links = nil
	}
	cleanedLinks := c.cleanAndDedup(links)

	c.mu.Lock()
	c.seen[seed] = struct{}{}
	for _, l := range cleanedLinks {
		c.seen[l] = struct{}{}
	}
	c.mu.Unlock()

	wq := workqueue.New(c.workers)
	for _, l := range cleanedLinks {
		if !c.takeBudget() {
			break
		}
		url := l
		wq.Submit(func() { c.crawlTask(ctx, wq, url) })
	}
	wq.Await()
	wq.Shutdown()

	text, err := htmlutil.StripTags(body)
	if err != nil {
		log.Printf("crawl: strip tags for seed %s: %v", seed, err)
		return nil
	}
	c.shared.AddAll(localIndex(seed, text))
	return nil
}

// crawlTask fetches u, discovers its outbound links (submitting further
// crawl tasks for any not yet seen, bounded by the remaining budget), and
// indexes u's plain text into the shared index.
func (c *Crawler) crawlTask(ctx context.Context, wq *workqueue.WorkQueue, u string) {
	body, ok, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		log.Printf("crawl: fetch %s: %v", u, err)
		return
	}
	if !ok {
		return
	}

	base, _ := url.Parse(u)
	links, err := htmlutil.ExtractLinks(body, base)
	if err != nil {
		log.Printf("crawl: extract links from %s: %v", u, err)
		links = nil
	}

	for _, raw := range links {
		cleaned, err := htmlutil.CleanURL(raw)
		if err != nil {
			continue
		}

		// check-add-decrement is one critical section so the total number
		// of crawl tasks submitted across the whole crawl never exceeds
		// the initial budget, even under concurrent discovery of the same
		// link from multiple pages.
		c.mu.Lock()
		_, dup := c.seen[cleaned]
		submit := false
		if !dup && c.budget > 0 {
			c.seen[cleaned] = struct{}{}
			c.budget--
			submit = true
		}
		c.mu.Unlock()

		if submit {
			next := cleaned
			wq.Submit(func() { c.crawlTask(ctx, wq, next) })
		}
	}

	text, err := htmlutil.StripTags(body)
	if err != nil {
		log.Printf("crawl: strip tags for %s: %v", u, err)
		return
	}
	c.shared.AddAll(localIndex(u, text))
}

// takeBudget decrements the shared budget under the same monitor used by
// crawlTask, reporting whether a submission is still allowed.
func (c *Crawler) takeBudget() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.budget <= 0 {
		return false
	}
	c.budget--
	return true
}

// cleanAndDedup cleans every URL and removes duplicates while preserving
// first-seen order.
func (c *Crawler) cleanAndDedup(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		cleaned, err := htmlutil.CleanURL(r)
		if err != nil {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

// localIndex tokenizes and stems text, recording each stem's position
// (1-based, incrementing per token) under location in a fresh, unlocked
// index ready to be merged into the shared index. Unlike build, no
// stopword filter runs here - crawl has no configured stopword set to
// apply.
func localIndex(location, text string) *index.InvertedIndex {
	local := index.New()
	counter := 1
	for _, s := range stem.TokenizeStem(text) {
		local.Add(s, location, counter)
		counter++
	}
	return local
}
