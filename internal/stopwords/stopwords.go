// Package stopwords implements an optional stem-exclusion filter applied
// during indexing. It is adapted from the teacher's word-bank validator:
// where that validator kept only words present in a whitelist, this one
// drops stems present in a blacklist, leaving everything else untouched.
package stopwords

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Set is an immutable collection of stems to exclude from indexing.
type Set struct {
	words map[string]struct{}
}

// Empty returns a Set that excludes nothing, used when no stopword list is
// configured.
func Empty() *Set {
	return &Set{words: map[string]struct{}{}}
}

// Load reads one stopword per line from filePath.
func Load(ctx context.Context, filePath string) (*Set, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open stopword list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	words := make(map[string]struct{})
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan stopword list: %w", err)
	}

	return &Set{words: words}, nil
}

// Keep reports whether stem should be indexed - true unless it appears in
// the stopword set.
func (s *Set) Keep(stem string) bool {
	if s == nil || len(s.words) == 0 {
		return true
	}
	_, excluded := s.words[stem]
	return !excluded
}
