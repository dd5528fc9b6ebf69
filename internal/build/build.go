// Package build implements the file-corpus ingestion pipeline: walking a
// directory tree for text files and populating a shared inverted index,
// either directly (single-threaded) or via per-file local indexes merged
// through addAll (multi-threaded). The worker/reducer split is adapted
// from the teacher's concurrent word counter, generalized from frequency
// maps to positional postings.
package build

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/shoresh319/jsearch/internal/index"
	"github.com/shoresh319/jsearch/internal/stem"
	"github.com/shoresh319/jsearch/internal/stopwords"
	"github.com/shoresh319/jsearch/internal/workqueue"
)

// Option configures a Builder.
type Option func(*Builder)

// WithThreads sets the worker count for multi-threaded builds. A count of
// 1 or less runs the build on the calling goroutine with no workqueue.
func WithThreads(n int) Option {
	return func(b *Builder) { b.threads = n }
}

// WithStopwords excludes the given stems from indexing.
func WithStopwords(s *stopwords.Set) Option {
	return func(b *Builder) {
		if s != nil {
			b.stop = s
		}
	}
}

// Builder walks a filesystem tree and populates an index from its text
// files.
type Builder struct {
	threads int
	stop    *stopwords.Set
}

// New constructs a Builder with the given options. The default is a
// single-threaded build with no stopword filtering.
func New(opts ...Option) *Builder {
	b := &Builder{threads: 1, stop: stopwords.Empty()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build walks startPath for regular files named *.txt or *.text
// (case-insensitive) following symbolic links, and indexes each into
// shared. A single file's I/O failure is logged and skipped; Build itself
// only fails if the walk cannot start at all.
func (b *Builder) Build(ctx context.Context, startPath string, shared *index.ThreadSafeIndex) error {
	files, err := walkTextFiles(startPath)
	if err != nil {
		return fmt.Errorf("walk %s: %w", startPath, err)
	}
	if len(files) == 0 {
		return nil
	}

	if b.threads <= 1 {
		for _, path := range files {
			b.indexFileInto(path, shared)
		}
		return nil
	}

	wq := workqueue.New(b.threads)
	for _, path := range files {
		p := path
		wq.Submit(func() {
			local := index.New()
			b.indexFileInto(p, local)
			shared.AddAll(local)
		})
	}
	wq.Await()
	wq.Shutdown()
	return nil
}

// indexer is satisfied by both *index.InvertedIndex (used for per-task
// local indexes, unlocked) and *index.ThreadSafeIndex (used directly in
// single-threaded mode).
type indexer interface {
	Add(stem, location string, position int)
}

func (b *Builder) indexFileInto(path string, idx indexer) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("build: open %s: %v", path, err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	counter := 1
	for scanner.Scan() {
		for _, s := range stem.TokenizeStem(scanner.Text()) {
			if b.stop.Keep(s) {
				idx.Add(s, path, counter)
			}
			counter++
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("build: read %s: %v", path, err)
	}
}

// walkTextFiles returns, in walk order, every regular file under root
// (following symlinked directories, with cycle protection) whose
// lowercased name ends in .txt or .text.
func walkTextFiles(root string) ([]string, error) {
	visited := make(map[string]struct{})
	var files []string

	var walk func(dir string) error
	walk = func(dir string) error {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			real = dir
		}
		if _, already := visited[real]; already {
			return nil
		}
		visited[real] = struct{}{}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			info, err := os.Stat(path) // Stat follows symlinks.
			if err != nil {
				log.Printf("build: stat %s: %v", path, err)
				continue
			}
			if info.IsDir() {
				if err := walk(path); err != nil {
					log.Printf("build: walk %s: %v", path, err)
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			lower := strings.ToLower(entry.Name())
			if strings.HasSuffix(lower, ".text") || strings.HasSuffix(lower, ".txt") {
				files = append(files, path)
			}
		}
		return nil
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if isTextFile(root) {
			return []string{root}, nil
		}
		return nil, nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return files, nil
}

func isTextFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".text") || strings.HasSuffix(lower, ".txt")
}
