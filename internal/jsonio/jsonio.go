// Package jsonio implements the JSON serialization the driver needs for
// the index dump, per-location counts, and query results. Encoding is
// deliberately bit-exact where §6 of the specification requires it: stems
// and locations sort naturally because Go's encoding/json sorts map keys,
// positions are emitted as an explicitly sorted slice, and scores are
// formatted to exactly eight decimal digits.
package jsonio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shoresh319/jsearch/internal/index"
)

// score formats a float64 as a JSON number with exactly eight decimal
// digits, matching §6's output-format requirement.
type score float64

func (s score) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%.8f", float64(s))), nil
}

type resultJSON struct {
	Location string `json:"location"`
	Matches  int    `json:"matches"`
	Score    score  `json:"score"`
}

// WriteIndex serializes the full postings structure: stem -> location ->
// sorted positions.
func WriteIndex(w io.Writer, idx *index.ThreadSafeIndex) error {
	out := make(map[string]map[string][]int)
	for _, s := range idx.StemSet() {
		locs := idx.PathSet(s)
		locMap := make(map[string][]int, len(locs))
		for _, loc := range locs {
			locMap[loc] = idx.PositionSet(s, loc)
		}
		out[s] = locMap
	}
	return encode(w, out)
}

// WriteCounts serializes the per-location word counts.
func WriteCounts(w io.Writer, idx *index.ThreadSafeIndex) error {
	return encode(w, idx.Counts())
}

// WriteResults serializes the query -> ranked-results map. Each result
// list retains the ranking order it was produced in; only the top-level
// map of canonical query keys is key-sorted (handled automatically by
// encoding/json).
func WriteResults(w io.Writer, results map[string][]index.SearchResult) error {
	out := make(map[string][]resultJSON, len(results))
	for key, rs := range results {
		list := make([]resultJSON, len(rs))
		for i, r := range rs {
			list[i] = resultJSON{Location: r.Location, Matches: r.Matches, Score: score(r.Score)}
		}
		out[key] = list
	}
	return encode(w, out)
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
