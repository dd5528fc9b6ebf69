package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shoresh319/jsearch/internal/index"
	"github.com/shoresh319/jsearch/internal/stopwords"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestBuildSingleThreadedIndexesTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "running runners run")
	writeFile(t, dir, "b.md", "should be ignored")

	shared := index.NewThreadSafe()
	b := New()
	if err := b.Build(context.Background(), dir, shared); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !shared.Contains("run") {
		t.Fatal("expected stem \"run\" to be indexed from a.txt")
	}
	if len(shared.StemSet()) == 0 {
		t.Fatal("expected non-empty index")
	}
}

func TestBuildMultiThreadedMatchesSingleThreaded(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, dir, "file"+string(rune('a'+i))+".txt", "alpha beta gamma alpha")
	}

	single := index.NewThreadSafe()
	if err := New().Build(context.Background(), dir, single); err != nil {
		t.Fatalf("single-threaded Build: %v", err)
	}

	multi := index.NewThreadSafe()
	if err := New(WithThreads(4)).Build(context.Background(), dir, multi); err != nil {
		t.Fatalf("multi-threaded Build: %v", err)
	}

	if len(single.StemSet()) != len(multi.StemSet()) {
		t.Fatalf("stem set size mismatch: single=%d multi=%d", len(single.StemSet()), len(multi.StemSet()))
	}
	for _, stem := range single.StemSet() {
		if len(single.PathSet(stem)) != len(multi.PathSet(stem)) {
			t.Fatalf("path set size mismatch for stem %q", stem)
		}
	}
}

func TestBuildRespectsStopwords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "the quick brown fox")

	dir2 := t.TempDir()
	stopPath := writeFile(t, dir2, "stop.txt", "the\n")
	stopSet, err := stopwords.Load(context.Background(), stopPath)
	if err != nil {
		t.Fatalf("load stopwords: %v", err)
	}

	shared := index.NewThreadSafe()
	b := New(WithStopwords(stopSet))
	if err := b.Build(context.Background(), dir, shared); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if shared.Contains("the") {
		t.Fatal("expected stopword \"the\" to be excluded")
	}
	if !shared.Contains("quick") {
		t.Fatal("expected non-stopword \"quick\" to be indexed")
	}
}

func TestBuildPositionsAccountForFilteredTokens(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "the quick fox")

	dir2 := t.TempDir()
	stopPath := writeFile(t, dir2, "stop.txt", "the\n")
	stopSet, err := stopwords.Load(context.Background(), stopPath)
	if err != nil {
		t.Fatalf("load stopwords: %v", err)
	}

	shared := index.NewThreadSafe()
	if err := New(WithStopwords(stopSet)).Build(context.Background(), dir, shared); err != nil {
		t.Fatalf("Build: %v", err)
	}

	// "the" occupies position 1 even though it is filtered out, so
	// "quick" must be recorded at position 2, not 1.
	if !shared.ContainsPosition("quick", path, 2) {
		t.Fatalf("expected \"quick\" at position 2, positions: %v", shared.PositionSet("quick", path))
	}
}

func TestBuildNonexistentPathFails(t *testing.T) {
	shared := index.NewThreadSafe()
	if err := New().Build(context.Background(), "/nonexistent/path", shared); err == nil {
		t.Fatal("expected error building from a nonexistent path")
	}
}
