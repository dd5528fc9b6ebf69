// Package index implements the positional inverted index: a stem -> location
// -> position mapping plus a per-location word count, the ranking used to
// turn matching stems into ordered SearchResults, and a lock-wrapped façade
// safe for concurrent build and search.
package index

import (
	"sort"
	"strings"
)

// SearchResult is one location's ranked contribution to a query: the total
// number of matching positions found there and its TF-like score.
type SearchResult struct {
	Location string
	Matches  int
	Score    float64
}

// InvertedIndex is the unsynchronized core index. Concurrent access must be
// mediated externally - see ThreadSafeIndex - or restricted to a single
// goroutine, as it is for the per-task local indexes workers build before
// merging into a shared index.
type InvertedIndex struct {
	stems     []string                      // sorted, unique
	postings  map[string]map[string]map[int]struct{}
	wordCount map[string]int
}

// New constructs an empty InvertedIndex.
func New() *InvertedIndex {
	return &InvertedIndex{
		postings:  make(map[string]map[string]map[int]struct{}),
		wordCount: make(map[string]int),
	}
}

// Add inserts position into postings[stem][location], growing
// wordCount[location] to position if position exceeds the current count.
// Add is idempotent: inserting the same (stem, location, position) twice
// has no additional effect.
func (idx *InvertedIndex) Add(stem, location string, position int) {
	locs, ok := idx.postings[stem]
	if !ok {
		locs = make(map[string]map[int]struct{})
		idx.postings[stem] = locs
		idx.insertStem(stem)
	}
	positions, ok := locs[location]
	if !ok {
		positions = make(map[int]struct{})
		locs[location] = positions
	}
	positions[position] = struct{}{}

	if position > idx.wordCount[location] {
		idx.wordCount[location] = position
	}
}

func (idx *InvertedIndex) insertStem(stem string) {
	i := sort.SearchStrings(idx.stems, stem)
	if i < len(idx.stems) && idx.stems[i] == stem {
		return
	}
	idx.stems = append(idx.stems, "")
	copy(idx.stems[i+1:], idx.stems[i:])
	idx.stems[i] = stem
}

// AddAll bulk-merges other into idx: for every (stem, location) pair the
// position sets are unioned, and wordCount[location] becomes the max of the
// two indexes' recorded counts. AddAll does not lock anything itself - the
// caller (ThreadSafeIndex.AddAll) is responsible for making the merge appear
// atomic to concurrent readers.
func (idx *InvertedIndex) AddAll(other *InvertedIndex) {
	if other == nil {
		return
	}
	for _, stem := range other.stems {
		for location, positions := range other.postings[stem] {
			for pos := range positions {
				idx.Add(stem, location, pos)
			}
		}
	}
	for location, count := range other.wordCount {
		if count > idx.wordCount[location] {
			idx.wordCount[location] = count
		}
	}
}

// Contains reports whether stem appears anywhere in the index.
func (idx *InvertedIndex) Contains(stem string) bool {
	_, ok := idx.postings[stem]
	return ok
}

// ContainsLocation reports whether stem was observed at location.
func (idx *InvertedIndex) ContainsLocation(stem, location string) bool {
	locs, ok := idx.postings[stem]
	if !ok {
		return false
	}
	_, ok = locs[location]
	return ok
}

// ContainsPosition reports whether stem was observed at location at
// position.
func (idx *InvertedIndex) ContainsPosition(stem, location string, position int) bool {
	locs, ok := idx.postings[stem]
	if !ok {
		return false
	}
	positions, ok := locs[location]
	if !ok {
		return false
	}
	_, ok = positions[position]
	return ok
}

// PathSet returns the sorted, de-duplicated locations recorded under stem.
// The returned slice is an owned copy safe to retain.
func (idx *InvertedIndex) PathSet(stem string) []string {
	locs, ok := idx.postings[stem]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(locs))
	for loc := range locs {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// PositionSet returns the sorted positions recorded for (stem, location).
// The returned slice is an owned copy safe to retain.
func (idx *InvertedIndex) PositionSet(stem, location string) []int {
	locs, ok := idx.postings[stem]
	if !ok {
		return nil
	}
	positions, ok := locs[location]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(positions))
	for p := range positions {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// StemSet returns every stem in the index, sorted. The returned slice is an
// owned copy safe to retain.
func (idx *InvertedIndex) StemSet() []string {
	out := make([]string, len(idx.stems))
	copy(out, idx.stems)
	return out
}

// Counts returns a copy of the per-location word counts.
func (idx *InvertedIndex) Counts() map[string]int {
	out := make(map[string]int, len(idx.wordCount))
	for k, v := range idx.wordCount {
		out[k] = v
	}
	return out
}

// ExactSearch folds the locations of every stem present verbatim in the
// index into a ranked result list.
func (idx *InvertedIndex) ExactSearch(stems []string) []SearchResult {
	acc := make(map[string]*SearchResult)
	for _, stem := range stems {
		locs, ok := idx.postings[stem]
		if !ok {
			continue
		}
		idx.fold(acc, locs)
	}
	return rank(acc)
}

// PartialSearch folds the locations of every index stem that begins with
// one of the query stems into a ranked result list. For each query stem it
// binary-searches the sorted stem slice for the first candidate and scans
// forward only while the prefix still matches, giving O(log N + k) lookup
// rather than a full index scan.
func (idx *InvertedIndex) PartialSearch(stems []string) []SearchResult {
	acc := make(map[string]*SearchResult)
	for _, q := range stems {
		if q == "" {
			continue
		}
		i := sort.SearchStrings(idx.stems, q)
		for ; i < len(idx.stems) && strings.HasPrefix(idx.stems[i], q); i++ {
			idx.fold(acc, idx.postings[idx.stems[i]])
		}
	}
	return rank(acc)
}

// Search dispatches to ExactSearch or PartialSearch depending on exact.
func (idx *InvertedIndex) Search(stems []string, exact bool) []SearchResult {
	if exact {
		return idx.ExactSearch(stems)
	}
	return idx.PartialSearch(stems)
}

func (idx *InvertedIndex) fold(acc map[string]*SearchResult, locs map[string]map[int]struct{}) {
	for location, positions := range locs {
		n := len(positions)
		if n == 0 {
			continue
		}
		count := idx.wordCount[location]
		if r, ok := acc[location]; ok {
			r.Matches += n
			if count > 0 {
				r.Score = float64(r.Matches) / float64(count)
			}
			continue
		}
		score := 0.0
		if count > 0 {
			score = float64(n) / float64(count)
		}
		acc[location] = &SearchResult{Location: location, Matches: n, Score: score}
	}
}

// rank sorts accumulated results by descending score, then descending
// matches, then ascending case-insensitive location - the total order
// search results must obey.
func rank(acc map[string]*SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(acc))
	for _, r := range acc {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return strings.ToLower(out[i].Location) < strings.ToLower(out[j].Location)
	})
	return out
}
