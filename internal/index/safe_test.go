package index

import (
	"sync"
	"testing"
)

func TestThreadSafeIndexConcurrentAddAll(t *testing.T) {
	shared := NewThreadSafe()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		loc := string(rune('a' + i%26))
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()
			local := New()
			local.Add("run", loc, 1)
			local.Add("jump", loc, 2)
			shared.AddAll(local)
		}(loc)
	}
	wg.Wait()

	if !shared.Contains("run") || !shared.Contains("jump") {
		t.Fatal("expected both stems present after concurrent merges")
	}
	if len(shared.PathSet("run")) == 0 {
		t.Fatal("expected at least one location recorded for run")
	}
}

func TestThreadSafeIndexSearchMatchesUnderlyingIndex(t *testing.T) {
	shared := NewThreadSafe()
	shared.Add("run", "a.txt", 1)
	shared.Add("running", "b.txt", 1)

	exact := shared.Search([]string{"run"}, true)
	if len(exact) != 1 {
		t.Fatalf("expected 1 exact match, got %d", len(exact))
	}

	partial := shared.Search([]string{"run"}, false)
	if len(partial) != 2 {
		t.Fatalf("expected 2 partial matches, got %d", len(partial))
	}
}
