package index

import (
	"reflect"
	"testing"
)

func TestAddAndExactSearch(t *testing.T) {
	idx := New()
	idx.Add("run", "a.txt", 1)
	idx.Add("run", "a.txt", 5)
	idx.Add("run", "b.txt", 2)
	idx.Add("jump", "b.txt", 3)

	if !idx.Contains("run") {
		t.Fatal("expected index to contain \"run\"")
	}
	if idx.Contains("swim") {
		t.Fatal("did not expect index to contain \"swim\"")
	}
	if !idx.ContainsPosition("run", "a.txt", 5) {
		t.Fatal("expected position 5 recorded for run/a.txt")
	}

	results := idx.ExactSearch([]string{"run"})
	if len(results) != 2 {
		t.Fatalf("expected 2 locations for \"run\", got %d", len(results))
	}
}

func TestAddIsIdempotent(t *testing.T) {
	idx := New()
	idx.Add("run", "a.txt", 1)
	idx.Add("run", "a.txt", 1)

	positions := idx.PositionSet("run", "a.txt")
	if !reflect.DeepEqual(positions, []int{1}) {
		t.Fatalf("expected single position [1], got %v", positions)
	}
}

func TestWordCountTracksMaxPosition(t *testing.T) {
	idx := New()
	idx.Add("run", "a.txt", 3)
	idx.Add("jump", "a.txt", 7)
	idx.Add("swim", "a.txt", 2)

	counts := idx.Counts()
	if counts["a.txt"] != 7 {
		t.Fatalf("expected word count 7 for a.txt, got %d", counts["a.txt"])
	}
}

func TestPartialSearchPrefixMatch(t *testing.T) {
	idx := New()
	idx.Add("running", "a.txt", 1)
	idx.Add("runner", "a.txt", 2)
	idx.Add("jump", "a.txt", 3)

	results := idx.PartialSearch([]string{"run"})
	if len(results) != 1 {
		t.Fatalf("expected 1 location matching prefix \"run\", got %d", len(results))
	}
	if results[0].Matches != 2 {
		t.Fatalf("expected 2 matches for prefix \"run\", got %d", results[0].Matches)
	}
}

func TestSearchRanksByScoreThenMatches(t *testing.T) {
	idx := New()
	// b.txt: 1 match out of 2 words -> score 0.5
	idx.Add("run", "b.txt", 1)
	idx.Add("other", "b.txt", 2)
	// a.txt: 1 match out of 4 words -> score 0.25
	idx.Add("run", "a.txt", 1)
	idx.Add("x", "a.txt", 2)
	idx.Add("y", "a.txt", 3)
	idx.Add("z", "a.txt", 4)
	// c.txt: 2 matches out of 4 words -> score 0.5, ties with b.txt on score
	idx.Add("run", "c.txt", 1)
	idx.Add("run", "c.txt", 4)
	idx.Add("w", "c.txt", 2)
	idx.Add("v", "c.txt", 3)

	results := idx.ExactSearch([]string{"run"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// c.txt has higher match count than b.txt at the same score, so it
	// ranks first; a.txt has the lowest score and ranks last.
	if results[0].Location != "c.txt" {
		t.Fatalf("expected c.txt ranked first, got %s", results[0].Location)
	}
	if results[1].Location != "b.txt" {
		t.Fatalf("expected b.txt ranked second, got %s", results[1].Location)
	}
	if results[2].Location != "a.txt" {
		t.Fatalf("expected a.txt ranked last, got %s", results[2].Location)
	}
}

func TestAddAllMergesAndTakesMaxWordCount(t *testing.T) {
	a := New()
	a.Add("run", "a.txt", 1)
	a.wordCount["a.txt"] = 10

	b := New()
	b.Add("run", "a.txt", 2)
	b.Add("jump", "a.txt", 3)
	b.wordCount["a.txt"] = 4

	a.AddAll(b)

	if !a.ContainsPosition("run", "a.txt", 2) {
		t.Fatal("expected merged position 2 for run/a.txt")
	}
	if !a.ContainsPosition("jump", "a.txt", 3) {
		t.Fatal("expected merged stem jump/a.txt")
	}
	if a.Counts()["a.txt"] != 10 {
		t.Fatalf("expected merge to keep the max word count (10), got %d", a.Counts()["a.txt"])
	}
}

func TestStemSetAndPathSetAreSorted(t *testing.T) {
	idx := New()
	idx.Add("zebra", "b.txt", 1)
	idx.Add("apple", "b.txt", 1)
	idx.Add("apple", "a.txt", 1)

	stems := idx.StemSet()
	if !reflect.DeepEqual(stems, []string{"apple", "zebra"}) {
		t.Fatalf("expected sorted stems, got %v", stems)
	}

	paths := idx.PathSet("apple")
	if !reflect.DeepEqual(paths, []string{"a.txt", "b.txt"}) {
		t.Fatalf("expected sorted paths, got %v", paths)
	}
}
